// Package main is the staffer CLI: it screens contract prospects, staffs
// them from the employee pool and hands the results downstream.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/okian/staffing/internal/config"
	"github.com/okian/staffing/internal/domain/screening"
	"github.com/okian/staffing/pkg/logger"
	"github.com/okian/staffing/pkg/metrics"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	snapshot   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "staffer",
		Short:         "Screen, rank and staff contract prospects",
		Long:          "Staffer reads a snapshot of contract prospects and employees, keeps the prospects worth bidding on, ranks them and greedily staffs them from a clearance-partitioned employee pool.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().StringVarP(&flags.snapshot, "snapshot", "s", "", "snapshot file, overrides snapshot_path")

	root.AddCommand(newRunCmd(flags), newScreenCmd(flags), newGenerateCmd())
	return root
}

// setup loads configuration and initializes logging and metrics for a
// subcommand.
func setup(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFrom(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	if flags.snapshot != "" {
		cfg.SnapshotPath = flags.snapshot
	}

	if err := logger.Init(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithJSON(cfg.LogFormat == "json"),
	); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Validate has already parsed both settings.
	labels, _ := cfg.MetricLabels()
	buckets, _ := cfg.LatencyBuckets()
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithMetricPrefix(cfg.MetricsPrefix),
		metrics.WithConstLabels(labels),
		metrics.WithLatencyBuckets(buckets),
	)
	return cfg, nil
}

func newScreener(cfg *config.Config) *screening.Screener {
	return screening.NewScreener(
		screening.WithMinContractLength(cfg.MinContractLengthMonths),
		screening.WithMinPositions(cfg.MinPositions),
		screening.WithMinAnnualAmountPerRole(cfg.MinAnnualAmount()),
	)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
