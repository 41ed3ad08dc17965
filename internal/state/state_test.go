package state

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw33tLie/tagscope/pkg/catalog"
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

func newState() *State {
	return New(catalog.New(catalog.Options{Validator: tags.NewValidator(tags.NewCache()), Workers: 2}))
}

func sample() []stock.Stock {
	return []stock.Stock{
		{Code: "600036", Name: "招商银行", Exchange: "SSE", CustomTags: "行业:银行"},
		{Code: "000001", Name: "平安银行", Exchange: "SZSE", CustomTags: "行业:银行;概念:AI"},
		{Code: "300750", Name: "宁德时代", Exchange: "SZSE"},
	}
}

func TestStateQueries(t *testing.T) {
	st := newState()
	assert.Empty(t, st.ListCategories("").Categories)

	st.SetCollection(sample())
	assert.Equal(t, 3, st.Len())

	cats := st.ListCategories("")
	assert.Equal(t, []string{"概念", "行业"}, cats.Categories)

	params := catalog.SearchParams{CategoryName: "行业", TagsPage: 1, TagsPerPage: 10, StocksPage: 1, StocksPerPage: 1}
	tagList := st.ListTags(params)
	require.Len(t, tagList.Tags, 1)

	sel, err := st.GetTagDetails("行业", "银行", "")
	require.NoError(t, err)
	page := st.ListStocksForTag(sel, params)
	assert.Equal(t, 2, page.TotalStocks)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Stocks, 1)
	assert.Equal(t, "600036", page.Stocks[0].Code)

	_, err = st.GetTagDetails("行业", "券商", "")
	assert.True(t, errors.Is(err, catalog.ErrTagNotFound))

	assert.Equal(t, "error", st.ValidateTag("a:b", ""))
	assert.Equal(t, "valid", st.ValidateTag("x", ""))
	assert.Len(t, st.ParseTags("A:x; B:y{z}"), 2)

	cat := st.Category("行业")
	assert.Equal(t, "行业", cat.Name)
	require.Len(t, cat.Tags, 1)
	assert.Equal(t, 2, cat.Tags[0].Count)
	assert.Empty(t, st.Category("地区").Tags)

	stats := st.CollectionStatistics()
	assert.Equal(t, catalog.CollectionStatistics{TotalStocks: 3, StocksWithTags: 2, TotalCategories: 2}, stats)
}

func TestCombinedSearch(t *testing.T) {
	st := newState()
	st.SetCollection(sample())

	cats, tagList := st.CombinedSearch(catalog.SearchParams{SearchQuery: "ai", CategoryName: "概念", TagsPage: 1, TagsPerPage: 5})
	assert.Equal(t, []string{"概念"}, cats.Categories)
	assert.Equal(t, 1, cats.Statistics.TotalTags)
	require.Len(t, tagList.Tags, 1)
	assert.Equal(t, "AI", tagList.Tags[0].Name)
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	st := newState()
	st.SetCollection(sample())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				st.ListCategories("")
				st.ListTags(catalog.SearchParams{CategoryName: "行业", TagsPage: 1, TagsPerPage: 10})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				st.SetCollection(sample())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, st.Len())
}
