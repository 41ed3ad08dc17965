package catalog

import (
	"errors"

	"github.com/sw33tLie/tagscope/pkg/stock"
)

// ErrTagNotFound is returned when a (category, name, detail) triple has no
// matching tag in the collection.
var ErrTagNotFound = errors.New("tag not found")

// SearchParams carries the query and paging state of a tag browser view.
// Pages are 1-based. An empty CategoryName means no category is selected.
type SearchParams struct {
	SearchQuery   string `json:"search_query,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	TagsPage      int    `json:"tags_page"`
	StocksPage    int    `json:"stocks_page"`
	TagsPerPage   int    `json:"tags_per_page"`
	StocksPerPage int    `json:"stocks_per_page"`
}

// TagDetails is one distinct (name, detail) pair inside a category, together
// with every stock that carries it. Count always equals len(Stocks).
type TagDetails struct {
	Name   string        `json:"name"`
	Detail string        `json:"detail,omitempty"`
	Count  int           `json:"count"`
	Stocks []stock.Stock `json:"stocks"`
}

// TagCategory is a category with its sorted tags.
type TagCategory struct {
	Name string       `json:"name"`
	Tags []TagDetails `json:"tags"`
}

// SelectedTag is a resolved tag and the stocks that carry it.
type SelectedTag struct {
	CategoryName string        `json:"category_name"`
	TagName      string        `json:"tag_name"`
	TagDetail    string        `json:"tag_detail,omitempty"`
	Stocks       []stock.Stock `json:"stocks"`
}

type TagStatistics struct {
	TotalTags                 int `json:"total_tags"`
	TotalCategories           int `json:"total_categories"`
	SelectedCategoryTagsCount int `json:"selected_category_tags_count"`
	CurrentPageTagsCount      int `json:"current_page_tags_count"`
	ErrorTagsCount            int `json:"error_tags_count"`
	WarningTagsCount          int `json:"warning_tags_count"`
	ValidTagsCount            int `json:"valid_tags_count"`
}

type CategoryListResult struct {
	Categories []string      `json:"categories"`
	Statistics TagStatistics `json:"statistics"`
}

// TagListResult is one page of a category's tags. The status counts cover
// the whole filtered category, not only the returned page.
type TagListResult struct {
	Tags             []TagDetails `json:"tags"`
	TotalTags        int          `json:"total_tags"`
	TotalPages       int          `json:"total_pages"`
	CurrentPage      int          `json:"current_page"`
	ErrorTagsCount   int          `json:"error_tags_count"`
	WarningTagsCount int          `json:"warning_tags_count"`
	ValidTagsCount   int          `json:"valid_tags_count"`
}

type StockListResult struct {
	Stocks      []stock.Stock `json:"stocks"`
	TotalStocks int           `json:"total_stocks"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// CollectionStatistics summarizes the held collection as a whole.
type CollectionStatistics struct {
	TotalStocks     int `json:"total_stocks"`
	StocksWithTags  int `json:"stocks_with_tags"`
	TotalCategories int `json:"total_categories"`
}
