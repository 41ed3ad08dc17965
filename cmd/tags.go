package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/tagscope/internal/state"
	"github.com/sw33tLie/tagscope/internal/utils"
	"github.com/sw33tLie/tagscope/pkg/catalog"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags of a category, errors first",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		query, _ := cmd.Flags().GetString("query")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := loadState(cmd)
		if err != nil {
			return err
		}

		res := st.ListTags(searchParams(cmd, category, query))
		if asJSON {
			return printJSON(res)
		}
		printTagTable(st, category, res)
		return nil
	},
}

func printTagTable(st *state.State, category string, res catalog.TagListResult) {
	if len(res.Tags) == 0 {
		fmt.Println("No tags found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STATUS\tTAG\tDETAIL\tSTOCKS\t")
	for _, t := range res.Tags {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t\n", st.ValidateTag(t.Name, t.Detail), t.Name, utils.Truncate(t.Detail, 40), t.Count)
	}
	w.Flush()

	fmt.Printf("\n%s: page %d/%d, %d tags (%d error, %d warning, %d valid)\n",
		category, res.CurrentPage, res.TotalPages, res.TotalTags,
		res.ErrorTagsCount, res.WarningTagsCount, res.ValidTagsCount)
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().StringP("category", "c", "", "Category name")
	tagsCmd.Flags().StringP("query", "q", "", "Search query (case-insensitive)")
	tagsCmd.Flags().Bool("json", false, "Print JSON")
	addPageFlags(tagsCmd)
	tagsCmd.MarkFlagRequired("category")
}
