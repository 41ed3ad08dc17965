package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().StringSlice("input", nil, "")
	addPageFlags(c)
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return c
}

func TestLoadCollectionFromInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.json")
	body := `[{"stock_code": "600036", "exchange": "SSE", "custom_tags": "行业:银行"}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := loadState(testCommand(t, "--input", path))
	if err != nil {
		t.Fatalf("loadState failed: %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 stock, got %d", st.Len())
	}
	if cats := st.ListCategories("").Categories; len(cats) != 1 || cats[0] != "行业" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}

func TestLoadCollectionMissingDB(t *testing.T) {
	viper.Set("db.path", filepath.Join(t.TempDir(), "missing.sqlite"))
	defer viper.Set("db.path", "")

	if _, err := loadCollection(testCommand(t)); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestSearchParams(t *testing.T) {
	viper.Set("pagination.tags_per_page", 15)
	viper.Set("pagination.stocks_per_page", 5)
	defer func() {
		viper.Set("pagination.tags_per_page", 20)
		viper.Set("pagination.stocks_per_page", 20)
	}()

	p := searchParams(testCommand(t, "--page", "3"), "行业", "银")
	if p.TagsPage != 3 || p.StocksPage != 3 || p.TagsPerPage != 15 || p.StocksPerPage != 5 {
		t.Fatalf("unexpected params: %#v", p)
	}
	if p.CategoryName != "行业" || p.SearchQuery != "银" {
		t.Fatalf("unexpected query fields: %#v", p)
	}

	p = searchParams(testCommand(t, "--per-page", "7"), "", "")
	if p.TagsPerPage != 7 || p.StocksPerPage != 7 || p.TagsPage != 1 {
		t.Fatalf("per-page override not applied: %#v", p)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/stocks.json": true,
		"http://localhost:8080/x":         true,
		"stocks.json":                     false,
		"./http/stocks.csv":               false,
	}
	for in, want := range tests {
		if got := isURL(in); got != want {
			t.Fatalf("isURL(%q) = %v, want %v", in, got, want)
		}
	}
}
