package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/tagscope/internal/utils"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "List the stocks carrying a tag",
	Example: `  tagscope stocks -c 行业 -n 银行
  tagscope stocks -c 概念 -n 金融科技 -d 核心 --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		name, _ := cmd.Flags().GetString("name")
		detail, _ := cmd.Flags().GetString("detail")
		asJSON, _ := cmd.Flags().GetBool("json")

		st, err := loadState(cmd)
		if err != nil {
			return err
		}

		selected, err := st.GetTagDetails(category, name, detail)
		if err != nil {
			return err
		}
		res := st.ListStocksForTag(selected, searchParams(cmd, category, ""))
		if asJSON {
			return printJSON(res)
		}

		if len(res.Stocks) == 0 {
			fmt.Println("No stocks on this page.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CODE\tEXCHANGE\tNAME\tCOMPANY\t")
		for _, s := range res.Stocks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", s.Code, s.Exchange, s.Name, utils.Truncate(s.CompanyName, 30))
		}
		w.Flush()

		fmt.Printf("\n%s: page %d/%d, %d stocks\n", tags.Format(category, name, detail), res.CurrentPage, res.TotalPages, res.TotalStocks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stocksCmd)
	stocksCmd.Flags().StringP("category", "c", "", "Category name")
	stocksCmd.Flags().StringP("name", "n", "", "Tag name")
	stocksCmd.Flags().StringP("detail", "d", "", "Tag detail")
	stocksCmd.Flags().Bool("json", false, "Print JSON")
	addPageFlags(stocksCmd)
	stocksCmd.MarkFlagRequired("category")
	stocksCmd.MarkFlagRequired("name")
}
