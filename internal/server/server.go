package server

import (
	"net/http"
	"time"

	"github.com/sw33tLie/tagscope/internal/state"
	"github.com/sw33tLie/tagscope/internal/utils"
)

const (
	defaultTagsPerPage   = 20
	defaultStocksPerPage = 20
)

type Server struct {
	State *state.State

	// Page sizes used when a request omits them.
	TagsPerPage   int
	StocksPerPage int

	metrics *metrics
}

func New(st *state.State, tagsPerPage, stocksPerPage int) *Server {
	if tagsPerPage <= 0 {
		tagsPerPage = defaultTagsPerPage
	}
	if stocksPerPage <= 0 {
		stocksPerPage = defaultStocksPerPage
	}
	return &Server{
		State:         st,
		TagsPerPage:   tagsPerPage,
		StocksPerPage: stocksPerPage,
		metrics:       newMetrics(st),
	}
}

// Handler returns the routed API, including /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.metrics.instrument(pattern, s.logged(h)))
	}

	route("POST /api/stocks", s.handleSetStocks)
	route("GET /api/stats", s.handleStats)
	route("POST /api/statistics", s.handleStatistics)
	route("GET /api/categories", s.handleCategories)
	route("GET /api/categories/{name}", s.handleCategory)
	route("GET /api/tags", s.handleTags)
	route("GET /api/tags/detail", s.handleTagDetail)
	route("GET /api/tags/stocks", s.handleTagStocks)
	route("GET /api/search", s.handleSearch)
	route("POST /api/parse", s.handleParse)
	route("GET /api/validate", s.handleValidate)

	mux.Handle("GET /metrics", s.metrics.handler())
	return mux
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	utils.Log.Infof("Starting server on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) logged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Log.Debugf("%s %s", r.Method, r.URL.RequestURI())
		next(w, r)
	}
}
