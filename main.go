package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the wiring shared by every command.
type app struct {
	cfg     *Config
	logger  *log.Logger
	history *HistoryDB
	updater *Updater
}

func newApp(cfg *Config, logger *log.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	opts := UpdaterOptions{
		Exchanges:     cfg.Exchanges(),
		RetainMissing: cfg.Refresh.RetainMissing,
		Logger:        logger,
	}
	if cfg.HistoryDB != "" {
		history, err := NewHistoryDB(cfg.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history database: %w", err)
		}
		a.history = history
		opts.History = history
	}

	screener := NewScreenerClient(cfg.Screener, logger)
	a.updater = NewUpdater(NewJSONStore(cfg.StorePath), screener, opts)
	return a, nil
}

// historyReader avoids handing a typed nil to interface consumers.
func (a *app) historyReader() HistoryReader {
	if a.history == nil {
		return nil
	}
	return a.history
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Printf("Warning: failed to close history database: %v", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, storePath, historyDB string
	var a *app

	rootCmd := &cobra.Command{
		Use:           "stockdata",
		Short:         "Maintain a local JSON dataset of stock records from the NASDAQ screener",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./stockdata.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "JSON dataset path (default data/stocks.json)")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "SQLite change history path (disabled when empty)")

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		v, err := newViper(configFile)
		if err != nil {
			return err
		}
		if err := bindFlags(v, rootCmd); err != nil {
			return err
		}
		cfg, err := decodeConfig(v)
		if err != nil {
			return err
		}

		logger := log.New(os.Stderr, "", log.LstdFlags)
		a, err = newApp(cfg, logger)
		return err
	}
	rootCmd.PersistentPostRun = func(c *cobra.Command, args []string) {
		if a != nil {
			a.Close()
		}
	}

	deps := func() *app { return a }
	rootCmd.AddCommand(
		newMenuCmd(deps),
		newRefreshCmd(deps),
		newUpsertCmd(deps),
		newSetFieldCmd(deps, "set-target", "target_price", "Set the target price (bumps last_updated)"),
		newSetFieldCmd(deps, "set-strategy", "strategy", "Set the strategy (bumps last_updated)"),
		newSetFieldCmd(deps, "set-rating", "rating", "Set the rating"),
		newSetFieldCmd(deps, "set-industry", "industry", "Set or clear the industry"),
		newSetLastUpdatedCmd(deps),
		newListCmd(deps),
		newSearchCmd(deps),
		newExportCmd(deps),
		newHistoryCmd(deps),
		newServeCmd(deps),
		newScheduleCmd(deps),
	)
	return rootCmd
}

func bindFlags(v *viper.Viper, rootCmd *cobra.Command) error {
	flags := rootCmd.PersistentFlags()
	if err := v.BindPFlag("store_path", flags.Lookup("store")); err != nil {
		return fmt.Errorf("failed to bind --store: %w", err)
	}
	if err := v.BindPFlag("history_db", flags.Lookup("history-db")); err != nil {
		return fmt.Errorf("failed to bind --history-db: %w", err)
	}
	return nil
}
