package command

import (
	"fmt"

	"taskcal/core/config"
	"taskcal/core/database"
	"taskcal/core/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Init(cfg.Log.Level, cfg.Log.Format)

		db, err := database.InitDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.ApplyMigrations(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("Migrations applied")
		return nil
	},
}
