package main

import (
	"encoding/json"
	"fmt"

	"github.com/okian/staffing/internal/adapters/gateway"
	"github.com/okian/staffing/internal/adapters/snapshot"
	service "github.com/okian/staffing/internal/app"
	"github.com/okian/staffing/internal/config"
	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/pkg/logger"
	"github.com/okian/staffing/pkg/metrics"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one staffing batch over a snapshot",
		Long:  "Screens and ranks the snapshot's prospects, staffs them from its employees, delivers contracts to the account manager and every processed prospect to recruiting, then prints a JSON run report.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			return runBatch(cmd, cfg)
		},
	}
}

func runBatch(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	log := logger.Get()

	snap, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithScreener(newScreener(cfg)),
		service.WithOutboxSize(cfg.OutboxSize),
		service.WithDispatcherCount(cfg.DispatcherCount),
	}

	if cfg.Delivery == config.DeliveryKafka {
		sp, err := gateway.NewSyncProducer(cfg.Brokers(), cfg.KafkaClientID)
		if err != nil {
			return err
		}
		defer func() {
			if err := sp.Close(); err != nil {
				log.Error(ctx, "closing kafka producer", logger.Error(err))
			}
		}()
		kafkaLog := log.Named("kafka")
		opts = append(opts,
			service.WithContractDeliverer(gateway.NewKafkaDeliverer[model.Contract](sp, cfg.KafkaContractsTopic, "contract", cfg.KafkaClientID, kafkaLog)),
			service.WithRecruitingDeliverer(gateway.NewKafkaDeliverer[model.Prospect](sp, cfg.KafkaRecruitingTopic, "prospect", cfg.KafkaClientID, kafkaLog)),
		)
	}

	report, runErr := service.New(snap, snap, opts...).Run(ctx)

	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		log.Warn(ctx, "metrics textfile not written", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
	}
	if runErr != nil {
		return runErr
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
