package catalog

import (
	"fmt"

	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

// ListStocks returns one page of the stocks carrying the selected tag.
func ListStocks(selected SelectedTag, params SearchParams) StockListResult {
	page, totalPages := Paginate(selected.Stocks, params.StocksPage, params.StocksPerPage)
	return StockListResult{
		Stocks:      page,
		TotalStocks: len(selected.Stocks),
		TotalPages:  totalPages,
		CurrentPage: params.StocksPage,
	}
}

// FindTag resolves an exact (category, name, detail) triple. It returns an
// error wrapping ErrTagNotFound when nothing matches.
func (c *Catalog) FindTag(stocks []stock.Stock, category, name, detail string) (SelectedTag, error) {
	for _, t := range c.AggregateCategory(stocks, category) {
		if t.Name == name && t.Detail == detail {
			return SelectedTag{
				CategoryName: category,
				TagName:      name,
				TagDetail:    detail,
				Stocks:       t.Stocks,
			}, nil
		}
	}
	return SelectedTag{}, fmt.Errorf("%w: %s", ErrTagNotFound, tags.Format(category, name, detail))
}
