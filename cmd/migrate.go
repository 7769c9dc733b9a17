package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief-api/internal/database"
	"github.com/podbrief/podbrief-api/internal/models"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply the database schema for the Podbrief API.

The schema is managed with GORM auto-migration; running this command
creates or updates the history, feed source, transcript, summary and
job tables.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.AutoMigrate(
		&models.HistoryRecord{},
		&models.FeedSource{},
		&models.Transcript{},
		&models.Summary{},
		&models.Job{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	fmt.Printf("Database schema up to date at %s\n", cfg.Database.Path)
	return nil
}
