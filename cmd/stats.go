package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the loaded stock collection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := loadState(cmd)
		if err != nil {
			return err
		}

		stats := st.CollectionStatistics()
		if asJSON {
			return printJSON(stats)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "STOCKS\tWITH TAGS\tCATEGORIES\t")
		fmt.Fprintf(w, "%d\t%d\t%d\t\n", stats.TotalStocks, stats.StocksWithTags, stats.TotalCategories)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("json", false, "Print JSON")
}
