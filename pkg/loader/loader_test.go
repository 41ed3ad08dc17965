package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

const sampleJSON = `[
	{"stock_code": "600036", "stock_name": "招商银行", "exchange": "SSE", "custom_tags": "行业:银行", "sectors_concepts": ["银行", "沪股通"]},
	{"stock_code": "000001", "stock_name": "平安银行", "exchange": "SZSE"}
]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		path    string
		want    int
		wantErr bool
	}{
		{name: "root array", body: sampleJSON, want: 2},
		{name: "nested path", body: `{"data": {"items": ` + sampleJSON + `}}`, path: "data.items", want: 2},
		{name: "empty array", body: `[]`, want: 0},
		{name: "missing path", body: `{"data": {}}`, path: "data.items", wantErr: true},
		{name: "path not array", body: `{"data": {"items": 1}}`, path: "data.items", wantErr: true},
		{name: "invalid document", body: `[{"stock_code": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON([]byte(tt.body), tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d stocks", len(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d stocks, got %d", tt.want, len(got))
			}
		})
	}

	got, err := ParseJSON([]byte(sampleJSON), "")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Code != "600036" || got[0].CustomTags != "行业:银行" || len(got[0].SectorsConcepts) != 2 {
		t.Fatalf("fields not decoded: %#v", got[0])
	}
}

func TestParseCSV(t *testing.T) {
	body := "\ufeffstock_code,Stock_Name,exchange,custom_tags,sectors_concepts,unknown\n" +
		"600036,招商银行,SSE,行业:银行;概念:金融科技{核心},银行 | 沪股通 |,x\n" +
		"000001,平安银行,SZSE,,,\n"

	got, err := ParseCSV(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 stocks, got %d", len(got))
	}

	first := got[0]
	if first.Code != "600036" || first.Name != "招商银行" || first.Exchange != "SSE" {
		t.Fatalf("unexpected first stock: %#v", first)
	}
	if first.CustomTags != "行业:银行;概念:金融科技{核心}" {
		t.Fatalf("unexpected custom tags: %q", first.CustomTags)
	}
	if len(first.SectorsConcepts) != 2 || first.SectorsConcepts[1] != "沪股通" {
		t.Fatalf("unexpected sectors: %#v", first.SectorsConcepts)
	}
	if got[1].HasTags() || got[1].SectorsConcepts != nil {
		t.Fatalf("second stock should be untagged: %#v", got[1])
	}
}

func TestParseCSVRequiresStockCode(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("stock_name,exchange\n招商银行,SSE\n")); err == nil {
		t.Fatal("expected error for header without stock_code")
	}

	got, err := ParseCSV(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Fatalf("empty input: got %d stocks, err %v", len(got), err)
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "stocks.xml", "<stocks/>")
	_, err := LoadFile(path, Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFilesKeepsArgumentOrder(t *testing.T) {
	jsonPath := writeFile(t, "a.json", sampleJSON)
	csvPath := writeFile(t, "b.csv", "stock_code,exchange\n300750,SZSE\n")

	got, err := LoadFiles(context.Background(), []string{csvPath, jsonPath}, Options{})
	if err != nil {
		t.Fatalf("LoadFiles failed: %v", err)
	}
	want := []string{"300750", "600036", "000001"}
	if len(got) != len(want) {
		t.Fatalf("expected %d stocks, got %d", len(want), len(got))
	}
	for i, code := range want {
		if got[i].Code != code {
			t.Fatalf("position %d: expected %s, got %s", i, code, got[i].Code)
		}
	}

	if _, err := LoadFiles(context.Background(), []string{jsonPath, filepath.Join(t.TempDir(), "missing.json")}, Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stocks":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": ` + sampleJSON + `}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := FetchURL(context.Background(), srv.URL+"/stocks", Options{JSONPath: "data", Retries: 1})
	if err != nil {
		t.Fatalf("FetchURL failed: %v", err)
	}
	if len(got) != 2 || got[1].Code != "000001" {
		t.Fatalf("unexpected stocks: %#v", got)
	}

	if _, err := FetchURL(context.Background(), srv.URL+"/missing", Options{Retries: 1}); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestSummarize(t *testing.T) {
	stocks := []stock.Stock{
		{Code: "600036", Exchange: "SSE", CustomTags: "行业:银行;概念:AI{"},
		{Code: "000001", Exchange: "SZSE", CustomTags: "行业:银行"},
		{Code: "300750", Exchange: "SZSE"},
	}

	sum := Summarize(stocks, tags.NewValidator(nil))
	if sum.Total != 3 || sum.WithTags != 2 {
		t.Fatalf("unexpected counts: total %d, tagged %d", sum.Total, sum.WithTags)
	}
	if len(sum.Invalid) != 1 {
		t.Fatalf("expected 1 invalid tag, got %#v", sum.Invalid)
	}
	inv := sum.Invalid[0]
	if inv.StockCode != "600036" || inv.Category != "概念" || inv.Tag != "概念:AI{" || len(inv.Problems) == 0 {
		t.Fatalf("unexpected invalid entry: %#v", inv)
	}
}
