package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"projecthub/internal/config"
	"projecthub/internal/store"
)

var migrateDB string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if migrateDB != "" {
			cfg.Database.URL = migrateDB
		}

		st, err := store.Open(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Database schema is up to date.")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDB, "db", "", "database URL or SQLite path (overrides config)")
}
