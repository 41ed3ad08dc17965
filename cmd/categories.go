package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List tag categories, optionally filtered by a search query",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := loadState(cmd)
		if err != nil {
			return err
		}

		res := st.ListCategories(query)
		if asJSON {
			return printJSON(res)
		}

		if len(res.Categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\t")
		for _, c := range res.Categories {
			fmt.Fprintf(w, "%s\t\n", c)
		}
		fmt.Fprintln(w, " \t")
		fmt.Fprintf(w, "%d categories, %d tags\t\n", res.Statistics.TotalCategories, res.Statistics.TotalTags)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().StringP("query", "q", "", "Search query (case-insensitive)")
	categoriesCmd.Flags().Bool("json", false, "Print JSON")
}
