package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newMenuCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive text menu",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return NewMenu(deps().updater, c.InOrStdin(), c.OutOrStdout()).Run(c.Context())
		},
	}
}

func newRefreshCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh ALL tickers from the screener (does not change last_updated)",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			a := deps()
			if a.history != nil {
				if last, err := a.history.LastRefresh(); err != nil {
					a.logger.Printf("Warning: %v", err)
				} else if !last.IsZero() {
					a.logger.Printf("Previous full refresh finished %s", last.Format("2006-01-02 15:04:05"))
				}
			}

			start := time.Now()
			summary, err := a.updater.RefreshAll(c.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Refreshed %s in %v\n", summary, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func newUpsertCmd(deps func() *app) *cobra.Command {
	var targetPrice, strategy, rating string

	cmd := &cobra.Command{
		Use:   "upsert TICKER",
		Short: "Add or refresh ONE ticker (does not change last_updated; keeps a non-empty industry)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var opts UpsertOptions
			if c.Flags().Changed("target-price") {
				opts.TargetPrice = &targetPrice
			}
			if c.Flags().Changed("strategy") {
				opts.Strategy = &strategy
			}
			if c.Flags().Changed("rating") {
				opts.Rating = &rating
			}

			rec, err := deps().updater.UpsertTicker(c.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(c, rec)
		},
	}

	cmd.Flags().StringVar(&targetPrice, "target-price", "", "replace target_price")
	cmd.Flags().StringVar(&strategy, "strategy", "", "replace strategy")
	cmd.Flags().StringVar(&rating, "rating", "", "replace rating")
	return cmd
}

func newSetFieldCmd(deps func() *app, use, field, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TICKER [VALUE]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			rec, err := deps().updater.SetField(args[0], field, value)
			if err != nil {
				return err
			}
			return printJSON(c, rec)
		},
	}
}

func newSetLastUpdatedCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-last-updated TICKER [YYYY-MM-DD|delete]",
		Short: "Set last_updated to a date, clear it with \"delete\", or stamp today when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(c *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 2 {
				arg = args[1]
			}
			action, err := ParseLastUpdatedArg(arg)
			if err != nil {
				return err
			}
			rec, err := deps().updater.SetLastUpdated(args[0], action)
			if err != nil {
				return err
			}
			return printJSON(c, rec)
		},
	}
}

func newListCmd(deps func() *app) *cobra.Command {
	var filter ReportFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the dataset with upside to target",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			records, err := deps().updater.Records()
			if err != nil {
				return err
			}
			return WriteReport(c.OutOrStdout(), BuildReport(records, filter))
		},
	}

	cmd.Flags().StringVar(&filter.Industry, "industry", "", "only this industry")
	cmd.Flags().StringVar(&filter.Rating, "rating", "", "only this rating")
	return cmd
}

func newSearchCmd(deps func() *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search stored records by ticker, name or industry",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			records, err := deps().updater.Records()
			if err != nil {
				return err
			}
			results := NewStockSearchService(records).Search(args[0], limit)
			for _, r := range results {
				fmt.Fprintf(c.OutOrStdout(), "%-6s %s (%s)\n", r.Ticker, r.Name, r.Industry)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultSearchLimit, "maximum results")
	return cmd
}

func newExportCmd(deps func() *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Export the dataset as CSV or Parquet",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			records, err := deps().updater.Records()
			if err != nil {
				return err
			}
			if err := ExportRecords(records, args[0], format); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Exported %d records to %s\n", len(records), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "csv or parquet (default from extension)")
	return cmd
}

func newHistoryCmd(deps func() *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history TICKER",
		Short: "Show recorded field changes for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			a := deps()
			if a.history == nil {
				return fmt.Errorf("history database is not configured (use --history-db)")
			}
			changes, err := a.history.History(args[0], limit)
			if err != nil {
				return err
			}
			for _, ch := range changes {
				fmt.Fprintf(c.OutOrStdout(), "%s  %-14s %-13s %q -> %q\n",
					ch.ChangedAt.Format("2006-01-02 15:04:05"), ch.Operation, ch.Field, ch.OldValue, ch.NewValue)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "maximum entries")
	return cmd
}

func newServeCmd(deps func() *app) *cobra.Command {
	var port string
	var withScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			a := deps()
			if port == "" {
				port = a.cfg.Server.Port
			}

			server := NewWebServer(a.updater, a.historyReader(), a.logger)
			defer server.Close()

			if withScheduler {
				if err := server.EnableScheduler(a.cfg.Schedule); err != nil {
					return err
				}
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.Run(":" + port) }()

			select {
			case err := <-errCh:
				return err
			case <-c.Context().Done():
				a.logger.Println("Shutting down web server")
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default server.port)")
	cmd.Flags().BoolVar(&withScheduler, "scheduler", false, "also run the scheduled refresh")
	return cmd
}

func newScheduleCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the full refresh on the configured cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			a := deps()
			scheduler, err := NewScheduler(a.updater, a.cfg.Schedule, a.logger)
			if err != nil {
				return err
			}
			if err := scheduler.Start(); err != nil {
				return err
			}
			a.logger.Printf("[Scheduler] Next refresh at %s", scheduler.Next().Format(time.RFC3339))

			<-c.Context().Done()
			scheduler.Stop()
			return nil
		},
	}
}

func printJSON(c *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
