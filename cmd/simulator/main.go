package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/config"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/events/kafka"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/generator"
	interfaces "github.com/sheikh-saqib/synthetic-ledger-generator/internal/interfaces"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/simulation"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/memory"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/postgres"
	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	catalog, err := config.LoadCatalog(cfg.Sim.CatalogPath)
	if err != nil {
		return err
	}
	seed := catalog.Seed
	if cfg.Sim.SeedSet {
		seed = cfg.Sim.Seed
	}

	base, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer closer.Close()

	store := storage.NewRetryingStore(base, cfg.Store.RetryAttempts, cfg.Store.RetryBackoff, logger)

	opts := []generator.Option{generator.WithLogger(logger)}
	if len(cfg.Kafka.Brokers) > 0 {
		pub := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer pub.Close()
		opts = append(opts, generator.WithPublisher(pub), generator.WithTopic(cfg.Kafka.Topic))
	}

	clock := generator.NewSimClock(0)
	gen := generator.NewGenerator(store, clock, generator.NewRand(seed), opts...)
	runner := simulation.NewRunner(gen, catalog, clock, generator.NewRand(seed+1), logger)

	logger.Info("starting simulation",
		zap.String("run_id", gen.RunID()),
		zap.String("driver", cfg.Store.Driver),
		zap.Int("events", cfg.Sim.Events),
		zap.Uint64("seed", seed),
	)

	sum, err := runner.Run(ctx, cfg.Sim.Events)
	if err != nil {
		return fmt.Errorf("aborted after %d entries: %w", sum.Entries, err)
	}

	logger.Info("simulation finished",
		zap.Int("entries", sum.Entries),
		zap.Int("true_lines", sum.TrueLines),
		zap.Int("noise_lines", sum.NoiseLines),
		zap.Int("skipped", sum.Skipped),
		zap.String("noise_left", sum.NoiseLeft.String()),
		zap.String("noise_right", sum.NoiseRight.String()),
	)
	return nil
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openStore(ctx context.Context, cfg config.StoreConfig) (interfaces.LedgerStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return memory.NewMemoryLedgerStore(), nopCloser{}, nil
	}
}
