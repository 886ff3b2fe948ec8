package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolscope/internal/chain"
	"poolscope/internal/config"
	"poolscope/internal/funding"
	"poolscope/internal/snapshot"
	"poolscope/internal/storage"
	"poolscope/internal/storage/postgres"
	"poolscope/internal/watch"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.SnapshotPath == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var fetcher *funding.Fetcher
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()
		fetcher = funding.NewFetcher(chainClient, logger)
	}

	var sinks []storage.StatusSink
	if cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlSink(cfg.Out))
	}

	var transitions watch.TransitionStore
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
		transitions = store
	}

	runner := watch.NewRunner(watch.RunConfig{
		Wallet:       cfg.Wallet,
		PollInterval: cfg.Interval,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, snapshot.NewFileSource(cfg.SnapshotPath), fetcher, sinks, transitions, watch.SystemClock{}, logger)

	logger.Info("watch start",
		zap.String("snapshot", cfg.SnapshotPath),
		zap.String("rpc", cfg.RPCURL),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("out", cfg.Out),
		zap.Duration("interval", cfg.Interval),
	)

	return runner.Run(ctx)
}
