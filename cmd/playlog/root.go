package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"playlog/internal/clock"
	"playlog/internal/config"
	"playlog/internal/metrics"
	"playlog/internal/publisher"
	"playlog/internal/scheduler"
	"playlog/internal/service"
	"playlog/internal/source/station"
	"playlog/internal/storage/sqlstore"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "playlog [database-file]",
	Short: "playlog records the songs a radio station reports as recently played.",
	Args:  cobra.MaximumNArgs(1),
	// Usage is noise for runtime failures like an unreachable database.
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(args)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.AddCommand(historyCmd)
}

// loadConfig applies the optional positional database argument on top of the
// config file.
func loadConfig(args []string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if len(args) == 1 {
		cfg.Database.Path = args[0]
	}
	return cfg, setupLogger(cfg.LogLevel), nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	source := cfg.Path
	if cfg.Driver == sqlstore.DriverPostgres {
		source = cfg.DSN()
	}

	return sqlstore.Open(ctx, cfg.Driver, source)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		return err
	}
	defer db.Close()
	logger.Info("connected to database", "driver", cfg.Database.Driver, "path", cfg.Database.Path)

	// Publisher stays a nil interface when disabled so the service skips it.
	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return err
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	metrics.RegisterMetrics(prometheus.DefaultRegisterer)
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	src := station.New(station.Config{
		URL:       cfg.Station.URL,
		Timeout:   cfg.Station.Timeout,
		UserAgent: cfg.Station.UserAgent,
	}, logger)

	ingest := service.NewIngestService(
		src,
		sqlstore.NewSongStore(db),
		sqlstore.NewPlayStore(db),
		sqlstore.NewTransactionManager(db),
		pub,
		clock.Real{},
		logger,
		cfg.Sync,
	)

	sched := scheduler.NewScheduler(ingest, cfg.Sync.Interval, cfg.Sync.CycleTimeout, logger)

	logger.Info("starting playlog",
		"source", src.ID(),
		"url", cfg.Station.URL,
		"interval", cfg.Sync.Interval,
		"dedup_window", cfg.Sync.DedupWindow,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		return err
	}

	logger.Info("shutting down")
	return nil
}
