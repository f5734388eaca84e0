package commands

import (
	"github.com/spf13/cobra"

	"adisyo-api/config"
	"adisyo-api/logger"
	"adisyo-api/seeders"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootstrap(); err != nil {
			return err
		}
		defer config.CloseDatabase()

		if err := config.Migrate(config.DB); err != nil {
			return err
		}
		logger.L().Info("migrate", "schema up to date", "", nil)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load first-run data into empty tables",
	Long: `Seed inserts the default users, tables, menu and settings. Each group is
only written when its table is empty, so running it twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootstrap(); err != nil {
			return err
		}
		defer config.CloseDatabase()

		if err := config.Migrate(config.DB); err != nil {
			return err
		}
		return seeders.Seed(config.DB)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
