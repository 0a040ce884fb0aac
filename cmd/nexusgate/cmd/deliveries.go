package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/solatis/nexusgate/internal/core/db"
)

var deliveriesCmd = &cobra.Command{
	Use:   "deliveries",
	Short: "List recent deliveries from the ledger",
	RunE:  runDeliveries,
}

func init() {
	rootCmd.AddCommand(deliveriesCmd)
	deliveriesCmd.Flags().Int("limit", 20, "number of deliveries to show")
	deliveriesCmd.Flags().Bool("json", false, "print one JSON object per line")
	deliveriesCmd.Flags().Bool("summary", false, "print counts per status instead of entries")
}

func runDeliveries(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	summary, _ := cmd.Flags().GetBool("summary")

	return withDatabase(cmd.Context(), func(ctx context.Context, database *sqlx.DB) error {
		store, err := db.NewDeliveryStore(database)
		if err != nil {
			return err
		}

		if summary {
			counts, err := store.CountByStatus(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tTOTAL")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\n", c.Status, c.Total)
			}
			return w.Flush()
		}

		deliveries, err := store.Recent(ctx, limit)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			for _, d := range deliveries {
				if err := enc.Encode(d); err != nil {
					return err
				}
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RECEIVED AT\tSURFACE\tSOURCE\tKIND\tSTATUS\tREASON")
		for _, d := range deliveries {
			source := d.Source
			if source == "" {
				source = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.ReceivedAt.UTC().Format(time.RFC3339), d.Surface, source, d.Kind, d.Status, d.Reason)
		}
		return w.Flush()
	})
}
