package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/nexusgate/internal/core/config"
	"github.com/solatis/nexusgate/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the delivery ledger schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, database *sqlx.DB) error {
			ran, err := db.MigrateUp(ctx, database)
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Println("Database is up to date")
				return nil
			}
			for _, id := range ran {
				fmt.Printf("Applied %s\n", id)
			}
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, database *sqlx.DB) error {
			statuses, err := db.MigrateStatus(ctx, database)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tSTATUS\tAPPLIED AT\tDURATION")
			for _, s := range statuses {
				if !s.Applied {
					fmt.Fprintf(w, "%s\tpending\t-\t-\n", s.ID)
					continue
				}
				appliedAt := "-"
				if s.AppliedAt != nil {
					appliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\tapplied\t%s\t%dms\n", s.ID, appliedAt, s.ExecutionMs)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}

// withDatabase opens the configured ledger database for the duration of fn.
func withDatabase(ctx context.Context, fn func(context.Context, *sqlx.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	url := resolveDBURL(cfg)
	if url == "" {
		return fmt.Errorf("--db-url or database.url required")
	}

	database, err := db.Open(ctx, url)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(ctx, database)
}
