package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adisyo-api/config"
	"adisyo-api/logger"
)

var (
	// Global flags
	configFile string
	debug      bool
)

// rootCmd runs the API server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "adisyo",
	Short: "Adisyo - restaurant point-of-sale backend",
	Long: `Adisyo serves the restaurant POS API: tables, orders, kitchen ticket
printing, menu management and daily reports.

Subcommands:
  serve    - Run the HTTP API (default)
  migrate  - Create or update the database schema
  seed     - Load first-run data into empty tables`,
	Version:      config.Default().App.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config overlay (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging and SQL tracing")
}

// bootstrap loads configuration, installs the logger and opens the database.
func bootstrap() error {
	if configFile != "" {
		os.Setenv("CONFIG_FILE", configFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		cfg.Database.Debug = true
	}
	config.App = cfg

	logger.SetDefault(logger.New("adisyo-api", debug))

	return config.ConnectDatabase(&cfg.Database)
}
