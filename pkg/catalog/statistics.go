package catalog

import (
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

func (c *Catalog) countStatuses(list []TagDetails) (errCount, warnCount, validCount int) {
	for _, t := range list {
		switch c.validator.Validate(t.Name, t.Detail) {
		case tags.Error:
			errCount++
		case tags.Warning:
			warnCount++
		default:
			validCount++
		}
	}
	return errCount, warnCount, validCount
}

// CalculateStatistics builds a TagStatistics for a page of tags. The totals
// are passed through from earlier category and tag listings.
func (c *Catalog) CalculateStatistics(page []TagDetails, filteredCategories, totalTags, selectedCategoryTags int) TagStatistics {
	errCount, warnCount, validCount := c.countStatuses(page)
	return TagStatistics{
		TotalTags:                 totalTags,
		TotalCategories:           filteredCategories,
		SelectedCategoryTagsCount: selectedCategoryTags,
		CurrentPageTagsCount:      len(page),
		ErrorTagsCount:            errCount,
		WarningTagsCount:          warnCount,
		ValidTagsCount:            validCount,
	}
}

type collectionPart struct {
	withTags   int
	categories map[string]struct{}
}

// CollectionStatistics counts stocks, tagged stocks and distinct categories.
func (c *Catalog) CollectionStatistics(stocks []stock.Stock) CollectionStatistics {
	parts := fanOut(len(stocks), c.workers, func(lo, hi int) collectionPart {
		p := collectionPart{categories: make(map[string]struct{})}
		for i := lo; i < hi; i++ {
			if !stocks[i].HasTags() {
				continue
			}
			p.withTags++
			for category := range tags.Parse(stocks[i].CustomTags) {
				p.categories[category] = struct{}{}
			}
		}
		return p
	})

	seen := make(map[string]struct{})
	withTags := 0
	for _, p := range parts {
		withTags += p.withTags
		for category := range p.categories {
			seen[category] = struct{}{}
		}
	}

	return CollectionStatistics{
		TotalStocks:     len(stocks),
		StocksWithTags:  withTags,
		TotalCategories: len(seen),
	}
}
