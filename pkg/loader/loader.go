// Package loader reads stock collections from JSON or CSV files and from
// HTTP endpoints.
package loader

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/sw33tLie/tagscope/pkg/stock"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Options controls how input documents are interpreted.
type Options struct {
	// JSONPath is a gjson path to the stock array inside a JSON document,
	// e.g. "data.items". Empty means the document itself is the array.
	JSONPath string
	// Retries is the number of retries for FetchURL.
	Retries int
}

// LoadFile reads a single .json or .csv file.
func LoadFile(path string, opts Options) ([]stock.Stock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		body, err := io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		stocks, err := ParseJSON(body, opts.JSONPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return stocks, nil
	case ".csv":
		stocks, err := ParseCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return stocks, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFiles loads several files concurrently and concatenates the results
// in argument order.
func LoadFiles(ctx context.Context, paths []string, opts Options) ([]stock.Stock, error) {
	results := make([][]stock.Stock, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stocks, err := LoadFile(p, opts)
			if err != nil {
				return err
			}
			results[i] = stocks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []stock.Stock
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// ParseJSON decodes a stock array, optionally located at a gjson path.
func ParseJSON(body []byte, path string) ([]stock.Stock, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON document")
	}

	raw := body
	if path != "" {
		res := gjson.GetBytes(body, path)
		if !res.Exists() {
			return nil, fmt.Errorf("json path %q not found", path)
		}
		if !res.IsArray() {
			return nil, fmt.Errorf("json path %q is not an array", path)
		}
		raw = []byte(res.Raw)
	}

	var stocks []stock.Stock
	if err := json.Unmarshal(raw, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}

// csvColumns maps header names to setters. Headers match the JSON field
// names of stock.Stock.
var csvColumns = map[string]func(s *stock.Stock, v string){
	"stock_code":          func(s *stock.Stock, v string) { s.Code = v },
	"stock_name":          func(s *stock.Stock, v string) { s.Name = v },
	"company_name":        func(s *stock.Stock, v string) { s.CompanyName = v },
	"exchange":            func(s *stock.Stock, v string) { s.Exchange = v },
	"business_scope":      func(s *stock.Stock, v string) { s.BusinessScope = v },
	"custom_tags":         func(s *stock.Stock, v string) { s.CustomTags = v },
	"official_website":    func(s *stock.Stock, v string) { s.OfficialWebsite = v },
	"company_description": func(s *stock.Stock, v string) { s.CompanyDescription = v },
	"underwriting_method": func(s *stock.Stock, v string) { s.UnderwritingMethod = v },
	"created_at":          func(s *stock.Stock, v string) { s.CreatedAt = v },
	"updated_at":          func(s *stock.Stock, v string) { s.UpdatedAt = v },
	"sectors_concepts":    func(s *stock.Stock, v string) { s.SectorsConcepts = splitSectors(v) },
}

// ParseCSV reads a CSV document with a header row. Unknown columns are
// ignored; sectors_concepts is '|' separated.
func ParseCSV(r io.Reader) ([]stock.Stock, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []stock.Stock{}, nil
	}

	header := records[0]
	setters := make([]func(*stock.Stock, string), len(header))
	hasCode := false
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		setters[i] = csvColumns[name]
		if name == "stock_code" {
			hasCode = true
		}
	}
	if !hasCode {
		return nil, errors.New("csv header has no stock_code column")
	}

	stocks := make([]stock.Stock, 0, len(records)-1)
	for _, record := range records[1:] {
		var s stock.Stock
		for i, v := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&s, v)
			}
		}
		stocks = append(stocks, s)
	}
	return stocks, nil
}

func splitSectors(v string) []string {
	var out []string
	for _, part := range strings.Split(v, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
