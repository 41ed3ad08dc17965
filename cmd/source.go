package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/tagscope/internal/state"
	"github.com/sw33tLie/tagscope/internal/utils"
	"github.com/sw33tLie/tagscope/pkg/catalog"
	"github.com/sw33tLie/tagscope/pkg/loader"
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/storage"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

func loaderOptions() loader.Options {
	return loader.Options{
		JSONPath: viper.GetString("loader.json_path"),
		Retries:  viper.GetInt("loader.retries"),
	}
}

func dbPathFlag() string {
	if p := viper.GetString("db.path"); p != "" {
		return p
	}
	return utils.DefaultDBFile
}

// loadCollection reads --input files when given, the SQLite snapshot
// otherwise.
func loadCollection(cmd *cobra.Command) ([]stock.Stock, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	inputs, _ := cmd.Flags().GetStringSlice("input")
	if len(inputs) > 0 {
		stocks, err := loader.LoadFiles(ctx, inputs, loaderOptions())
		if err != nil {
			return nil, err
		}
		utils.Log.Debugf("Loaded %d stocks from %d file(s)", len(stocks), len(inputs))
		return stocks, nil
	}

	dbPath := dbPathFlag()
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %s (run 'tagscope db import' or pass --input)", dbPath)
	}
	db, err := storage.Open(dbPath, storage.DefaultDBTimeout)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	stocks, err := db.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	utils.Log.Debugf("Loaded %d stocks from %s", len(stocks), dbPath)
	return stocks, nil
}

func newState(stocks []stock.Stock) *state.State {
	st := state.New(catalog.New(catalog.Options{
		Validator: tags.NewValidator(tags.NewCache()),
		Workers:   viper.GetInt("catalog.workers"),
		Log:       utils.Log,
	}))
	if stocks != nil {
		st.SetCollection(stocks)
	}
	return st
}

func loadState(cmd *cobra.Command) (*state.State, error) {
	stocks, err := loadCollection(cmd)
	if err != nil {
		return nil, err
	}
	return newState(stocks), nil
}

// searchParams fills paging from the --page/--per-page flags, falling back
// to the configured page sizes.
func searchParams(cmd *cobra.Command, category, query string) catalog.SearchParams {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")

	p := catalog.SearchParams{
		SearchQuery:   query,
		CategoryName:  category,
		TagsPage:      page,
		StocksPage:    page,
		TagsPerPage:   viper.GetInt("pagination.tags_per_page"),
		StocksPerPage: viper.GetInt("pagination.stocks_per_page"),
	}
	if perPage > 0 {
		p.TagsPerPage = perPage
		p.StocksPerPage = perPage
	}
	return p
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number (1-based)")
	cmd.Flags().Int("per-page", 0, "Items per page (default from config)")
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
