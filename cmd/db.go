package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/tagscope/internal/utils"
	"github.com/sw33tLie/tagscope/pkg/loader"
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/storage"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the tagscope database",
}

func openExistingDB() (*storage.DB, error) {
	dbPath := dbPathFlag()
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %s", dbPath)
	}
	return storage.Open(dbPath, storage.DefaultDBTimeout)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

var dbImportCmd = &cobra.Command{
	Use:   "import <file|url>...",
	Short: "Replace the stored stock snapshot with the given JSON/CSV files or URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		opts := loaderOptions()

		var files, urls []string
		for _, a := range args {
			if isURL(a) {
				urls = append(urls, a)
			} else {
				files = append(files, a)
			}
		}

		var stocks []stock.Stock
		if len(files) > 0 {
			loaded, err := loader.LoadFiles(ctx, files, opts)
			if err != nil {
				return err
			}
			stocks = append(stocks, loaded...)
		}
		for _, u := range urls {
			fetched, err := loader.FetchURL(ctx, u, opts)
			if err != nil {
				return err
			}
			utils.Log.Infof("Fetched %d stocks from %s", len(fetched), u)
			stocks = append(stocks, fetched...)
		}

		sum := loader.Summarize(stocks, tags.NewValidator(nil))
		utils.Log.Infof("Read %d stocks, %d with custom tags", sum.Total, sum.WithTags)
		for _, inv := range sum.Invalid {
			utils.Log.Warnf("%s (%s): invalid tag %q: %s", inv.StockCode, inv.Exchange, inv.Tag, strings.Join(inv.Problems, "; "))
		}

		absPath, err := utils.GetAbsDBPath(dbPathFlag())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return err
		}

		lock, err := utils.NewDBLock(absPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(absPath, storage.DefaultDBTimeout)
		if err != nil {
			return err
		}
		defer db.Close()

		kept, skipped := storableStocks(stocks)
		if skipped > 0 {
			utils.Log.Warnf("Skipping %d record(s) without a stock_code", skipped)
		}
		changes, err := db.ReplaceStocks(ctx, kept)
		if err != nil {
			return err
		}

		counts := map[string]int{}
		for _, c := range changes {
			counts[c.ChangeType]++
		}
		fmt.Printf("Imported %d stocks into %s: %d added, %d updated, %d removed\n",
			len(kept), absPath, counts[storage.ChangeAdded], counts[storage.ChangeUpdated], counts[storage.ChangeRemoved])
		return nil
	},
}

// storableStocks drops records the snapshot cannot key, i.e. those without
// a stock code, and reports how many were dropped.
func storableStocks(stocks []stock.Stock) ([]stock.Stock, int) {
	kept := make([]stock.Stock, 0, len(stocks))
	for _, s := range stocks {
		if s.Code != "" {
			kept = append(kept, s)
		}
	}
	return kept, len(stocks) - len(kept)
}

func getStoredStock(ctx context.Context, code, exchange string) (stock.Stock, error) {
	db, err := openExistingDB()
	if err != nil {
		return stock.Stock{}, err
	}
	defer db.Close()
	return db.GetStock(ctx, code, exchange)
}

var dbGetCmd = &cobra.Command{
	Use:     "get <stock_code> <exchange>",
	Short:   "Print one stored stock as JSON",
	Example: "  tagscope db get 600036 SSE",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStoredStock(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(s)
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-exchange statistics about the stocks in the database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openExistingDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "EXCHANGE\tSTOCKS\tWITH TAGS\t")

		var totalStocks, totalTagged int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t\n", s.Exchange, s.StockCount, s.TaggedCount)
			totalStocks += s.StockCount
			totalTagged += s.TaggedCount
		}

		fmt.Fprintln(w, " \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t\n", totalStocks, totalTagged)

		return w.Flush()
	},
}

var dbChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent custom tag changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openExistingDB()
		if err != nil {
			return err
		}
		defer db.Close()

		changes, err := db.ListRecentChanges(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-7s  %s.%s  %s  %q -> %q\n", ts, c.ChangeType, c.StockCode, c.Exchange, c.StockName, c.OldTags, c.NewTags)
		}
		return nil
	},
}

// dbShellCmd represents the shell command
var dbShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := dbPathFlag()
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", dbPath)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, dbPath, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			utils.Log.Warnf("couldn't retrieve schema: %v", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, dbPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbGetCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbChangesCmd)
	dbCmd.AddCommand(dbShellCmd)
	dbChangesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
