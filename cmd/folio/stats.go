package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/store"
)

func newStatsCmd() *cobra.Command {
	var period, dbPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print visitor analytics and the contact outbox state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := folio.LoadConfig()
				if err != nil {
					return err
				}
				dbPath = cfg.DatabasePath
			}
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			_, days := analytics.ParsePeriod(period)
			from, to := analytics.TimeRange(time.Now(), days)
			stats, err := analytics.NewStore(db).GetStats(ctx, from, to)
			if err != nil {
				return err
			}
			if err := analytics.WriteReport(cmd.OutOrStdout(), stats); err != nil {
				return err
			}

			pending, sent, abandoned, err := contact.NewOutbox(db).Counts(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("\nContact outbox\n--------------\n")
			cmd.Printf("pending    %d\nsent       %d\nabandoned  %d\n", pending, sent, abandoned)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "week", "today, week, month or year")
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (overrides FOLIO_DATABASE_PATH)")
	return cmd
}
