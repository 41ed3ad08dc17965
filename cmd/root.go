package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/tagscope/internal/utils"
)

var cfgFile string

const (
	LOGO = `	 _
	| |_ __ _  __ _ ___  ___ ___  _ __   ___
	| __/ _' |/ _' / __|/ __/ _ \| '_ \ / _ \
	| || (_| | (_| \__ \ (_| (_) | |_) |  __/
	 \__\__,_|\__, |___/\___\___/| .__/ \___|
	          |___/              |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagscope",
	Short: "Browse, search and validate custom stock tags.",
	Long: LOGO + `tagscope parses the "category:name{detail}" custom tags attached to stocks,
validates them, and lets you browse categories, tags and tagged stocks from the
command line or over a small JSON API.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tagscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringSliceP("input", "i", nil, "Load stocks from JSON or CSV file(s) instead of the database")
	rootCmd.PersistentFlags().String("dbpath", "", "Path to SQLite DB file (default: "+utils.DefaultDBFile+" in CWD)")
	rootCmd.PersistentFlags().Int("workers", 0, "Aggregation workers (0 = GOMAXPROCS)")

	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("dbpath"))
	viper.BindPFlag("catalog.workers", rootCmd.PersistentFlags().Lookup("workers"))
}

func setDefaults() {
	viper.SetDefault("db.path", utils.DefaultDBFile)
	viper.SetDefault("catalog.workers", 0)
	viper.SetDefault("pagination.tags_per_page", 20)
	viper.SetDefault("pagination.stocks_per_page", 20)
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("loader.retries", 3)
	viper.SetDefault("loader.json_path", "")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".tagscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := filepath.Join(home, ".tagscope.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s\n", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := utils.SetLogLevel(levelString); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
