package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sw33tLie/tagscope/pkg/tags"
)

var validateCmd = &cobra.Command{
	Use:   "validate <name> [detail]",
	Short: "Validate a tag name and optional detail",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, detail := args[0], ""
		if len(args) == 2 {
			detail = args[1]
		}

		problems := tags.Problems(name, detail)
		if cmd.Flags().Changed("category") {
			category, _ := cmd.Flags().GetString("category")
			problems = tags.CheckStructure(category, name, detail)
		}

		fmt.Println(tags.NewValidator(nil).Validate(name, detail))
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("category", "c", "", "Also check the category name")
}
