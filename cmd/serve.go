package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/tagscope/internal/server"
	"github.com/sw33tLie/tagscope/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long: `Start the JSON API server. The collection is loaded from --input or the
database when available; otherwise the server starts empty and waits for
POST /api/stocks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, _ := cmd.Flags().GetStringSlice("input")

		st := newState(nil)
		if _, err := os.Stat(dbPathFlag()); len(inputs) > 0 || err == nil {
			stocks, err := loadCollection(cmd)
			if err != nil {
				return err
			}
			st.SetCollection(stocks)
			utils.Log.Infof("Serving %d stocks", len(stocks))
		} else {
			utils.Log.Warnf("No collection loaded, POST one to /api/stocks")
		}

		srv := server.New(st, viper.GetInt("pagination.tags_per_page"), viper.GetInt("pagination.stocks_per_page"))
		return srv.Start(viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}
