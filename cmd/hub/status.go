package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"projecthub/internal/config"
	"projecthub/internal/entity"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show hub status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Println("Hub Status")
		fmt.Println("==========")
		fmt.Printf("Config project:  %s\n", cfg.Project.Name)
		fmt.Printf("Database:        %s\n", cfg.Database.URL)

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			fmt.Printf("Database check:  FAILED (%v)\n", err)
			return nil
		}
		defer st.Close()

		if err := st.Health(cmd.Context()); err != nil {
			fmt.Printf("Database check:  FAILED (%v)\n", err)
			return nil
		}
		fmt.Println("Database check:  OK")

		project, err := st.Project(cmd.Context())
		if err != nil {
			return err
		}
		if project.Name != "" {
			fmt.Printf("Project:         %s\n", project.Name)
		}
		if project.Phase != "" {
			fmt.Printf("Phase:           %s\n", project.Phase)
		}

		counts, err := st.Counts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("Records:")
		for _, name := range entity.Collections {
			fmt.Printf("  %-20s %d\n", name, counts[name])
		}
		return nil
	},
}
