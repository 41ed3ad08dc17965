// Package state holds the current stock collection and dispatches the tag
// browser operations against it. Replacing the collection takes the write
// lock, every query runs under the read lock.
package state

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sw33tLie/tagscope/pkg/catalog"
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

type State struct {
	mu     sync.RWMutex
	stocks []stock.Stock

	catalog *catalog.Catalog
}

// New returns an empty State that runs queries through c.
func New(c *catalog.Catalog) *State {
	return &State{catalog: c}
}

// SetCollection replaces the held collection wholesale. The slice is owned
// by the State afterwards and must not be modified by the caller.
func (s *State) SetCollection(stocks []stock.Stock) {
	s.mu.Lock()
	s.stocks = stocks
	s.mu.Unlock()
}

// Len returns the number of stocks currently held.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stocks)
}

// Catalog returns the catalog queries run through.
func (s *State) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *State) ListCategories(query string) catalog.CategoryListResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.ListCategories(s.stocks, query)
}

func (s *State) ListTags(params catalog.SearchParams) catalog.TagListResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.ListTags(s.stocks, params)
}

// Category returns every tag of one category, sorted, without paging. An
// unknown category comes back with no tags.
func (s *State) Category(name string) catalog.TagCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Category(s.stocks, name)
}

// ListStocksForTag pages through an already resolved tag; it does not read
// the held collection.
func (s *State) ListStocksForTag(selected catalog.SelectedTag, params catalog.SearchParams) catalog.StockListResult {
	return catalog.ListStocks(selected, params)
}

func (s *State) ParseTags(raw string) tags.ParsedTags {
	return tags.Parse(raw)
}

// ValidateTag returns the status name of the tag, e.g. "valid" or "error".
func (s *State) ValidateTag(name, detail string) string {
	return s.catalog.Validator().Validate(name, detail).String()
}

// GetTagDetails resolves a tag and its stocks. The error wraps
// catalog.ErrTagNotFound when the tag is not in the collection.
func (s *State) GetTagDetails(category, name, detail string) (catalog.SelectedTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.FindTag(s.stocks, category, name, detail)
}

// CombinedSearch runs the category and tag listings for the same params
// concurrently against one snapshot of the collection.
func (s *State) CombinedSearch(params catalog.SearchParams) (catalog.CategoryListResult, catalog.TagListResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		categories catalog.CategoryListResult
		tagList    catalog.TagListResult
	)
	var g errgroup.Group
	g.Go(func() error {
		categories = s.catalog.ListCategories(s.stocks, params.SearchQuery)
		return nil
	})
	g.Go(func() error {
		tagList = s.catalog.ListTags(s.stocks, params)
		return nil
	})
	_ = g.Wait()

	return categories, tagList
}

func (s *State) CollectionStatistics() catalog.CollectionStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.CollectionStatistics(s.stocks)
}

// CalculateStatistics builds page statistics from caller supplied totals.
func (s *State) CalculateStatistics(page []catalog.TagDetails, filteredCategories, totalTags, selectedCategoryTags int) catalog.TagStatistics {
	return s.catalog.CalculateStatistics(page, filteredCategories, totalTags, selectedCategoryTags)
}
