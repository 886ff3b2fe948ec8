package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolscope/internal/chain"
	"poolscope/internal/config"
	"poolscope/internal/erc20"
	"poolscope/internal/funding"
	"poolscope/internal/lifecycle"
	"poolscope/internal/model"
	"poolscope/internal/snapshot"
)

// statusOutput is the printed result of a one-shot derivation.
type statusOutput struct {
	Status   model.StatusRecord                    `json:"status"`
	Timeline map[lifecycle.Step]lifecycle.StepView `json:"timeline"`
	Funding  *funding.View                         `json:"funding,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadStatus(cfgFile, cmd.Flags())
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	record, err := snapshot.NewFileSource(cfg.SnapshotPath).Load(ctx)
	if err != nil {
		return err
	}
	snap, err := record.Snapshot()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if cfg.At != "" {
		at, err := config.ParseInstant(cfg.At)
		if err != nil {
			return fmt.Errorf("parse at: %w", err)
		}
		now = at
	}

	status := lifecycle.Classify(snap, now)
	role := lifecycle.ResolveRole(cfg.Wallet, snap)
	timeline := lifecycle.BuildTimeline(snap, now)

	var figures *model.FundingFigures
	var fundingView *funding.View
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		if chainID, err := chainClient.GetChainID(ctx); err == nil {
			if chainID.IsUint64() && chainID.Uint64() != snap.ChainID {
				logger.Warn("chain id mismatch",
					zap.Uint64("snapshot", snap.ChainID),
					zap.String("rpc", chainID.String()),
				)
			}
		} else {
			logger.Warn("chain id fetch failed", zap.Error(err))
		}

		fetcher := funding.NewFetcher(chainClient, logger)
		figures = fetcher.Collect(ctx, snap, cfg.Wallet)

		decimals := uint8(0)
		symbol := ""
		if token, err := snapshot.ParseAddress(snap.PurchaseToken); err == nil {
			if dec, err := erc20.Decimals(ctx, chainClient, token); err == nil {
				decimals = dec
			} else {
				logger.Warn("token decimals fetch failed", zap.Error(err))
			}
			if sym, err := erc20.Symbol(ctx, chainClient, token); err == nil {
				symbol = sym
			} else {
				logger.Warn("token symbol fetch failed", zap.Error(err))
			}
		}
		view := funding.BuildView(snap, figures, symbol, decimals)
		fundingView = &view
	}

	resolution := lifecycle.ResolveActions(role, status.Current, snap, now, figures)

	out := statusOutput{
		Status: model.StatusRecord{
			ChainID:      snap.ChainID,
			PoolAddress:  snap.Address,
			Stage:        string(status.Current),
			History:      status.HistoryStrings(),
			Role:         string(role),
			Actions:      resolution.Actions.Sorted(),
			Undetermined: resolution.Undetermined.Sorted(),
			ObservedAt:   now.Format(time.RFC3339Nano),
		},
		Timeline: timeline,
		Funding:  fundingView,
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	fmt.Println(string(encoded))

	return nil
}
