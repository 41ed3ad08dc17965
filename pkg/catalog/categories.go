package catalog

import (
	"sort"
	"strings"

	"github.com/sw33tLie/tagscope/pkg/stock"
)

// ListCategories returns every category found in the collection, sorted by
// byte order. A non-blank query keeps a category when its name, or the name
// or detail of any of its tags, contains the query (case-insensitive).
// Statistics.TotalTags counts the tags of the kept categories that pass the
// same query.
func (c *Catalog) ListCategories(stocks []stock.Stock, query string) CategoryListResult {
	idx := c.buildIndex(stocks, nil)

	active := strings.TrimSpace(query) != ""
	q := strings.ToLower(query)

	categories := make([]string, 0, len(idx))
	totalTags := 0
	for name, g := range idx {
		if !active {
			categories = append(categories, name)
			totalTags += len(g.order)
			continue
		}

		nameMatch := strings.Contains(strings.ToLower(name), q)
		matched := 0
		for _, k := range g.order {
			if nameMatch || matchesQuery(*g.tags[k], name, q) {
				matched++
			}
		}
		if !nameMatch && matched == 0 {
			continue
		}
		categories = append(categories, name)
		totalTags += matched
	}

	sort.Strings(categories)

	return CategoryListResult{
		Categories: categories,
		Statistics: TagStatistics{
			TotalTags:       totalTags,
			TotalCategories: len(categories),
		},
	}
}
