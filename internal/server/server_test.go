package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sw33tLie/tagscope/internal/state"
	"github.com/sw33tLie/tagscope/pkg/catalog"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

const sampleStocks = `[
	{"stock_code": "600036", "stock_name": "招商银行", "exchange": "SSE", "custom_tags": "行业:银行"},
	{"stock_code": "000001", "stock_name": "平安银行", "exchange": "SZSE", "custom_tags": "行业:银行;概念:AI"},
	{"stock_code": "300750", "stock_name": "宁德时代", "exchange": "SZSE"}
]`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := state.New(catalog.New(catalog.Options{Validator: tags.NewValidator(nil), Workers: 2}))
	srv := httptest.NewServer(New(st, 10, 1).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/stocks", "application/json", strings.NewReader(sampleStocks))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loaded map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loaded))
	require.Equal(t, 3, loaded["stocks"])
	return srv
}

func getJSON(t *testing.T, rawURL string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestCategoriesAndStats(t *testing.T) {
	srv := newTestServer(t)

	var cats catalog.CategoryListResult
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/categories", &cats))
	assert.Equal(t, []string{"概念", "行业"}, cats.Categories)
	assert.Equal(t, 2, cats.Statistics.TotalTags)

	var filtered catalog.CategoryListResult
	getJSON(t, srv.URL+"/api/categories?"+url.Values{"q": {"ai"}}.Encode(), &filtered)
	assert.Equal(t, []string{"概念"}, filtered.Categories)

	var stats catalog.CollectionStatistics
	getJSON(t, srv.URL+"/api/stats", &stats)
	assert.Equal(t, catalog.CollectionStatistics{TotalStocks: 3, StocksWithTags: 2, TotalCategories: 2}, stats)
}

func TestTagsAndTagStocks(t *testing.T) {
	srv := newTestServer(t)

	var list catalog.TagListResult
	q := url.Values{"category": {"行业"}}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags?"+q.Encode(), &list))
	require.Len(t, list.Tags, 1)
	assert.Equal(t, "银行", list.Tags[0].Name)
	assert.Equal(t, 2, list.Tags[0].Count)
	assert.Equal(t, 1, list.ValidTagsCount)

	var selected catalog.SelectedTag
	q = url.Values{"category": {"行业"}, "name": {"银行"}}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags/detail?"+q.Encode(), &selected))
	assert.Len(t, selected.Stocks, 2)

	var page catalog.StockListResult
	q.Set("stocks_page", "2")
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags/stocks?"+q.Encode(), &page))
	assert.Equal(t, 2, page.TotalStocks)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Stocks, 1)
	assert.Equal(t, "000001", page.Stocks[0].Code)

	q = url.Values{"category": {"行业"}, "name": {"券商"}}
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/tags/detail?"+q.Encode(), nil))

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/tags?category=x&tags_page=abc", nil))
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)

	var res SearchResponse
	q := url.Values{"q": {"银"}, "category": {"行业"}}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/search?"+q.Encode(), &res))
	assert.Equal(t, []string{"行业"}, res.Categories.Categories)
	require.Len(t, res.Tags.Tags, 1)
	assert.Equal(t, 1, res.Tags.CurrentPage)
}

func TestParseAndValidate(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/parse", "application/json", strings.NewReader(`{"custom_tags": "行业:银行{国有}; 概念:AI"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed tags.ParsedTags
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, []tags.Item{{Name: "银行", Detail: "国有"}}, parsed["行业"])

	var v ValidateResponse
	getJSON(t, srv.URL+"/api/validate?"+url.Values{"name": {"银行"}}.Encode(), &v)
	assert.Equal(t, "valid", v.Status)
	assert.Empty(t, v.Problems)

	getJSON(t, srv.URL+"/api/validate?"+url.Values{"name": {"a:b"}}.Encode(), &v)
	assert.Equal(t, "error", v.Status)
	assert.NotEmpty(t, v.Problems)

	getJSON(t, srv.URL+"/api/validate?"+url.Values{"category": {""}, "name": {"ok"}}.Encode(), &v)
	assert.Equal(t, "valid", v.Status)
	assert.Contains(t, v.Problems, "category name is empty")
}

func TestStatisticsAndBadBodies(t *testing.T) {
	srv := newTestServer(t)

	body := `{"tags": [{"name": "a:b", "count": 1}, {"name": "ok", "count": 2}], "filtered_categories": 3, "total_tags": 9, "selected_category_tags": 2}`
	resp, err := http.Post(srv.URL+"/api/statistics", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats catalog.TagStatistics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 9, stats.TotalTags)
	assert.Equal(t, 3, stats.TotalCategories)
	assert.Equal(t, 2, stats.CurrentPageTagsCount)
	assert.Equal(t, 1, stats.ErrorTagsCount)
	assert.Equal(t, 1, stats.ValidTagsCount)

	for _, path := range []string{"/api/stocks", "/api/parse", "/api/statistics"} {
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader("{not json"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	getJSON(t, srv.URL+"/api/validate?name=x", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "tagscope_stocks 3")
	assert.Contains(t, text, `tagscope_http_requests_total{code="200",route="POST /api/stocks"} 1`)
	assert.Contains(t, text, "tagscope_validation_cache_misses_total")
}

func TestCategoryView(t *testing.T) {
	srv := newTestServer(t)

	var cat catalog.TagCategory
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/categories/"+url.PathEscape("行业"), &cat))
	assert.Equal(t, "行业", cat.Name)
	require.Len(t, cat.Tags, 1)
	assert.Equal(t, "银行", cat.Tags[0].Name)
	assert.Equal(t, 2, cat.Tags[0].Count)

	var unknown catalog.TagCategory
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/categories/"+url.PathEscape("地区"), &unknown))
	assert.Equal(t, "地区", unknown.Name)
	assert.NotNil(t, unknown.Tags)
	assert.Empty(t, unknown.Tags)
}

func TestHugePageReturnsEmptyPage(t *testing.T) {
	srv := newTestServer(t)

	var list catalog.TagListResult
	q := url.Values{"category": {"行业"}, "tags_page": {"2305843009213693954"}, "tags_per_page": {"4"}}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags?"+q.Encode(), &list))
	assert.Empty(t, list.Tags)
	assert.Equal(t, 1, list.TotalTags)
	assert.Equal(t, 1, list.TotalPages)

	var page catalog.StockListResult
	q = url.Values{"category": {"行业"}, "name": {"银行"}, "stocks_page": {"9223372036854775807"}}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags/stocks?"+q.Encode(), &page))
	assert.Empty(t, page.Stocks)
	assert.Equal(t, 2, page.TotalStocks)
}
