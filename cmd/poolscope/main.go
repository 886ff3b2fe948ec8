package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poolscope",
		Short:        "Fundraising pool lifecycle watcher",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Derive a pool's lifecycle status once and print it",
		RunE:  runStatus,
	}

	statusCmd.Flags().String("snapshot", "", "pool snapshot JSON path")
	statusCmd.Flags().String("rpc", "", "RPC URL for the funding view (optional)")
	statusCmd.Flags().String("wallet", "", "wallet address for role resolution (optional)")
	statusCmd.Flags().String("at", "", "derive at this instant instead of now (unix seconds/millis or RFC3339)")
	statusCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(statusCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a pool snapshot and track lifecycle transitions",
		RunE:  runWatch,
	}

	watchCmd.Flags().String("snapshot", "", "pool snapshot JSON path")
	watchCmd.Flags().String("rpc", "", "RPC URL for the funding view (optional)")
	watchCmd.Flags().String("wallet", "", "wallet address for role resolution (optional)")
	watchCmd.Flags().String("pg-dsn", "", "Postgres DSN (optional)")
	watchCmd.Flags().String("out", "", "status JSONL output path (optional)")
	watchCmd.Flags().Duration("interval", 30*time.Second, "poll interval")
	watchCmd.Flags().Int("max-retries", 5, "maximum snapshot load retries")
	watchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	watchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
