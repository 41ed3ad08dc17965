package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sw33tLie/tagscope/pkg/tags"
)

var parseCmd = &cobra.Command{
	Use:   "parse <custom_tags>",
	Short: "Parse a custom tags string and print it as JSON",
	Example: `  tagscope parse "行业:银行{国有大行}; 概念:金融科技"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(tags.Parse(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
