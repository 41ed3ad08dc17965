package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sw33tLie/tagscope/internal/utils"
	"github.com/sw33tLie/tagscope/pkg/catalog"
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

func httpError(w http.ResponseWriter, r *http.Request, err error, code int) {
	utils.Log.Warnf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func intParam(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer: %q", key, v)
	}
	return n, nil
}

// searchParams reads the shared query parameters: q, category and the
// tags/stocks page and per-page values.
func (s *Server) searchParams(q url.Values) (catalog.SearchParams, error) {
	p := catalog.SearchParams{
		SearchQuery:  q.Get("q"),
		CategoryName: q.Get("category"),
	}
	fields := []struct {
		key string
		dst *int
		def int
	}{
		{"tags_page", &p.TagsPage, 1},
		{"stocks_page", &p.StocksPage, 1},
		{"tags_per_page", &p.TagsPerPage, s.TagsPerPage},
		{"stocks_per_page", &p.StocksPerPage, s.StocksPerPage},
	}
	for _, f := range fields {
		n, err := intParam(q, f.key, f.def)
		if err != nil {
			return p, err
		}
		*f.dst = n
	}
	return p, nil
}

func (s *Server) handleSetStocks(w http.ResponseWriter, r *http.Request) {
	var stocks []stock.Stock
	if err := json.NewDecoder(r.Body).Decode(&stocks); err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	if stocks == nil {
		stocks = []stock.Stock{}
	}
	s.State.SetCollection(stocks)
	utils.Log.Infof("Loaded %d stocks", len(stocks))
	writeJSON(w, map[string]int{"stocks": len(stocks)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.State.CollectionStatistics())
}

type StatisticsRequest struct {
	Tags                 []catalog.TagDetails `json:"tags"`
	FilteredCategories   int                  `json:"filtered_categories"`
	TotalTags            int                  `json:"total_tags"`
	SelectedCategoryTags int                  `json:"selected_category_tags"`
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	var req StatisticsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, s.State.CalculateStatistics(req.Tags, req.FilteredCategories, req.TotalTags, req.SelectedCategoryTags))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.State.ListCategories(r.URL.Query().Get("q")))
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.State.Category(r.PathValue("name")))
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	params, err := s.searchParams(r.URL.Query())
	if err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, s.State.ListTags(params))
}

func (s *Server) resolveTag(w http.ResponseWriter, r *http.Request) (catalog.SelectedTag, bool) {
	q := r.URL.Query()
	selected, err := s.State.GetTagDetails(q.Get("category"), q.Get("name"), q.Get("detail"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrTagNotFound) {
			code = http.StatusNotFound
		}
		httpError(w, r, err, code)
		return selected, false
	}
	return selected, true
}

func (s *Server) handleTagDetail(w http.ResponseWriter, r *http.Request) {
	selected, ok := s.resolveTag(w, r)
	if !ok {
		return
	}
	writeJSON(w, selected)
}

func (s *Server) handleTagStocks(w http.ResponseWriter, r *http.Request) {
	params, err := s.searchParams(r.URL.Query())
	if err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	selected, ok := s.resolveTag(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.State.ListStocksForTag(selected, params))
}

type SearchResponse struct {
	Categories catalog.CategoryListResult `json:"categories"`
	Tags       catalog.TagListResult      `json:"tags"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := s.searchParams(r.URL.Query())
	if err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	categories, tagList := s.State.CombinedSearch(params)
	writeJSON(w, SearchResponse{Categories: categories, Tags: tagList})
}

type ParseRequest struct {
	CustomTags string `json:"custom_tags"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, s.State.ParseTags(req.CustomTags))
}

type ValidateResponse struct {
	Status   string   `json:"status"`
	Problems []string `json:"problems"`
}

// handleValidate checks name and detail. When category is also given the
// category name is checked too, but only name and detail drive the status.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, detail := q.Get("name"), q.Get("detail")

	problems := tags.Problems(name, detail)
	if category, ok := q["category"]; ok && len(category) > 0 {
		problems = tags.CheckStructure(category[0], name, detail)
	}
	if problems == nil {
		problems = []string{}
	}
	writeJSON(w, ValidateResponse{
		Status:   s.State.ValidateTag(name, detail),
		Problems: problems,
	})
}
