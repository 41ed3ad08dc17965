package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

type tagKey struct {
	name   string
	detail string
}

// categoryGroup collects the tags of one category. order records first-seen
// keys so that a merged group lists tags in scan order before sorting.
type categoryGroup struct {
	tags  map[tagKey]*TagDetails
	order []tagKey
}

type tagIndex map[string]*categoryGroup

func (idx tagIndex) group(category string) *categoryGroup {
	g, ok := idx[category]
	if !ok {
		g = &categoryGroup{tags: make(map[tagKey]*TagDetails)}
		idx[category] = g
	}
	return g
}

func (g *categoryGroup) add(item tags.Item, s stock.Stock) {
	k := tagKey{name: item.Name, detail: item.Detail}
	t, ok := g.tags[k]
	if !ok {
		t = &TagDetails{Name: item.Name, Detail: item.Detail}
		g.tags[k] = t
		g.order = append(g.order, k)
	}
	t.Count++
	t.Stocks = append(t.Stocks, s)
}

// merge folds other into idx. Called in range order, it keeps each tag's
// stocks in collection order.
func (idx tagIndex) merge(other tagIndex) {
	for category, og := range other {
		g := idx.group(category)
		for _, k := range og.order {
			t := og.tags[k]
			if existing, ok := g.tags[k]; ok {
				existing.Count += t.Count
				existing.Stocks = append(existing.Stocks, t.Stocks...)
				continue
			}
			g.tags[k] = t
			g.order = append(g.order, k)
		}
	}
}

func (g *categoryGroup) list() []TagDetails {
	if g == nil {
		return []TagDetails{}
	}
	out := make([]TagDetails, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, *g.tags[k])
	}
	return out
}

// buildIndex parses every tagged stock in parallel and groups the tag items
// by category and (name, detail). keep limits which categories are indexed;
// nil keeps them all.
func (c *Catalog) buildIndex(stocks []stock.Stock, keep func(category string) bool) tagIndex {
	start := time.Now()

	parts := fanOut(len(stocks), c.workers, func(lo, hi int) tagIndex {
		idx := make(tagIndex)
		for i := lo; i < hi; i++ {
			s := stocks[i]
			if !s.HasTags() {
				continue
			}
			for category, items := range tags.Parse(s.CustomTags) {
				if keep != nil && !keep(category) {
					continue
				}
				g := idx.group(category)
				for _, item := range items {
					g.add(item, s)
				}
			}
		}
		return idx
	})

	merged := make(tagIndex)
	for _, p := range parts {
		merged.merge(p)
	}

	c.log.Debugf("[catalog] indexed %d stocks in %d chunks, %d categories (%s)", len(stocks), len(parts), len(merged), time.Since(start))
	return merged
}

// AggregateCategory merges every occurrence of a category's tags across the
// collection and returns them sorted.
func (c *Catalog) AggregateCategory(stocks []stock.Stock, category string) []TagDetails {
	idx := c.buildIndex(stocks, func(name string) bool { return name == category })
	list := idx[category].list()
	c.sortTags(list)
	return list
}

// Category returns AggregateCategory wrapped with the category name.
func (c *Catalog) Category(stocks []stock.Stock, category string) TagCategory {
	return TagCategory{Name: category, Tags: c.AggregateCategory(stocks, category)}
}

// sortTags orders errors first, then by usage count descending, then by
// name and detail ascending.
func (c *Catalog) sortTags(list []TagDetails) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		wa := c.validator.Validate(a.Name, a.Detail).Weight()
		wb := c.validator.Validate(b.Name, b.Detail).Weight()
		if wa != wb {
			return wa > wb
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Detail < b.Detail
	})
}

// matchesQuery reports whether a tag survives a search. query must already
// be lower-cased.
func matchesQuery(t TagDetails, category, query string) bool {
	return strings.Contains(strings.ToLower(t.Name), query) ||
		(t.Detail != "" && strings.Contains(strings.ToLower(t.Detail), query)) ||
		strings.Contains(strings.ToLower(category), query)
}

func filterTags(list []TagDetails, category, query string) []TagDetails {
	if strings.TrimSpace(query) == "" {
		return list
	}
	q := strings.ToLower(query)
	out := make([]TagDetails, 0, len(list))
	for _, t := range list {
		if matchesQuery(t, category, q) {
			out = append(out, t)
		}
	}
	return out
}
