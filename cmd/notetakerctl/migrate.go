package main

import (
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  "migrate applies the SQL migrations embedded in the binary. Connection settings come from DB_* variables or .env.",
	}

	var upSteps, downSteps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, migrate.Up, upSteps)
		},
	}
	up.Flags().IntVar(&upSteps, "steps", 0, "Maximum migrations to apply (0 applies all)")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, migrate.Down, downSteps)
		},
	}
	down.Flags().IntVar(&downSteps, "steps", 1, "Migrations to roll back (0 rolls back all)")

	status := &cobra.Command{
		Use:   "status",
		Short: "List applied migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			db, err := database.NewPostgresDB(cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			records, err := database.MigrationStatus(db)
			if err != nil {
				return err
			}

			type row struct {
				ID        string    `json:"id"`
				AppliedAt time.Time `json:"applied_at"`
			}
			rows := make([]row, 0, len(records))
			for _, r := range records {
				rows = append(rows, row{ID: r.Id, AppliedAt: r.AppliedAt})
			}
			if done, err := render(cmd.OutOrStdout(), rows); done {
				return err
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", r.ID, r.AppliedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func runMigrate(cmd *cobra.Command, direction migrate.MigrationDirection, steps int) error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}
	db, err := database.NewPostgresDB(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := database.Migrate(db, direction, steps)
	if err != nil {
		return err
	}
	verb := "Applied"
	if direction == migrate.Down {
		verb = "Rolled back"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s %d migration(s)\n", verb, n)
	return nil
}
