package catalog

import (
	"github.com/sw33tLie/tagscope/pkg/stock"
)

// ListTags returns one page of the selected category's tags, filtered by
// the search query and sorted errors first. Status counts are taken over
// the whole filtered list before paging.
func (c *Catalog) ListTags(stocks []stock.Stock, params SearchParams) TagListResult {
	if params.CategoryName == "" {
		return TagListResult{
			Tags:        []TagDetails{},
			CurrentPage: params.TagsPage,
		}
	}

	all := c.AggregateCategory(stocks, params.CategoryName)
	filtered := filterTags(all, params.CategoryName, params.SearchQuery)

	errCount, warnCount, validCount := c.countStatuses(filtered)
	page, totalPages := Paginate(filtered, params.TagsPage, params.TagsPerPage)

	return TagListResult{
		Tags:             page,
		TotalTags:        len(filtered),
		TotalPages:       totalPages,
		CurrentPage:      params.TagsPage,
		ErrorTagsCount:   errCount,
		WarningTagsCount: warnCount,
		ValidTagsCount:   validCount,
	}
}
