package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search categories and the tags of one category at once",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		query, _ := cmd.Flags().GetString("query")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := loadState(cmd)
		if err != nil {
			return err
		}

		categories, tagList := st.CombinedSearch(searchParams(cmd, category, query))
		if asJSON {
			return printJSON(map[string]interface{}{
				"categories": categories,
				"tags":       tagList,
			})
		}

		fmt.Printf("Categories (%d): %s\n\n", categories.Statistics.TotalCategories, strings.Join(categories.Categories, ", "))
		if category != "" {
			printTagTable(st, category, tagList)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringP("category", "c", "", "Category whose tags to list")
	searchCmd.Flags().StringP("query", "q", "", "Search query (case-insensitive)")
	searchCmd.Flags().Bool("json", false, "Print JSON")
	addPageFlags(searchCmd)
}
