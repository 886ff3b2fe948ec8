package watch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"poolscope/internal/funding"
	"poolscope/internal/lifecycle"
	"poolscope/internal/model"
	"poolscope/internal/snapshot"
	"poolscope/internal/storage"
)

// TransitionStore persists pool rows and stage transitions and recalls the
// last recorded stage so a restarted watcher does not re-announce old stages.
type TransitionStore interface {
	UpsertPool(ctx context.Context, snap *model.PoolSnapshot) error
	InsertTransitions(ctx context.Context, transitions []model.StageTransition) error
	LoadLastStage(ctx context.Context, chainID uint64, poolAddress string) (string, bool, error)
}

// RunConfig holds runtime settings for the watcher.
type RunConfig struct {
	Wallet       string
	PollInterval time.Duration // zero means derive once and return
	MaxRetries   int
	RetryBackoff time.Duration
}

// Runner polls a snapshot source, derives the pool's lifecycle status, and
// emits status records and stage transitions. Each loaded snapshot replaces
// the previous one wholesale; all derivation happens on the fresh copy.
type Runner struct {
	cfg         RunConfig
	source      snapshot.Source
	fetcher     *funding.Fetcher // nil when no RPC is configured
	sinks       []storage.StatusSink
	transitions TransitionStore // nil when no store is configured
	clock       Clock
	logger      *zap.Logger
	seen        map[lifecycle.Stage]struct{}
	resumed     bool
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source snapshot.Source, fetcher *funding.Fetcher, sinks []storage.StatusSink, transitions TransitionStore, clock Clock, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Runner{
		cfg:         cfg,
		source:      source,
		fetcher:     fetcher,
		sinks:       sinks,
		transitions: transitions,
		clock:       clock,
		logger:      logger,
		seen:        make(map[lifecycle.Stage]struct{}),
	}
}

// Run executes the watch loop until the context is cancelled. With a zero
// poll interval it derives once and returns.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("snapshot source is nil")
	}

	if err := r.tick(ctx); err != nil {
		return err
	}
	if r.cfg.PollInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context) error {
	record, err := r.loadWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := record.Snapshot()
	if err != nil {
		// Malformed snapshots fail fast; nothing partial is classified.
		return err
	}

	now := r.clock.Now()
	status := lifecycle.Classify(snap, now)
	role := lifecycle.ResolveRole(r.cfg.Wallet, snap)

	var figures *model.FundingFigures
	if r.fetcher != nil {
		figures = r.fetcher.Collect(ctx, snap, r.cfg.Wallet)
	}
	resolution := lifecycle.ResolveActions(role, status.Current, snap, now, figures)

	statusRecord := model.StatusRecord{
		ChainID:      snap.ChainID,
		PoolAddress:  snap.Address,
		Stage:        string(status.Current),
		History:      status.HistoryStrings(),
		Role:         string(role),
		Actions:      resolution.Actions.Sorted(),
		Undetermined: resolution.Undetermined.Sorted(),
		ObservedAt:   now.UTC().Format(time.RFC3339Nano),
	}

	for _, sink := range r.sinks {
		if err := sink.PutStatus(ctx, statusRecord); err != nil {
			return fmt.Errorf("store status: %w", err)
		}
	}

	if r.transitions != nil {
		if !r.resumed {
			if err := r.resume(ctx, snap); err != nil {
				return err
			}
		}
		if err := r.transitions.UpsertPool(ctx, snap); err != nil {
			return fmt.Errorf("store pool: %w", err)
		}
	}

	if err := r.recordTransitions(ctx, snap, status, now); err != nil {
		return err
	}

	r.logger.Info("status derived",
		zap.String("pool", snap.Address),
		zap.String("stage", string(status.Current)),
		zap.String("role", string(role)),
		zap.Strings("actions", statusRecord.Actions),
	)

	return nil
}

// resume marks every stage up to the last recorded one as already seen so a
// restart does not re-announce transitions the store already holds.
func (r *Runner) resume(ctx context.Context, snap *model.PoolSnapshot) error {
	r.resumed = true
	last, ok, err := r.transitions.LoadLastStage(ctx, snap.ChainID, snap.Address)
	if err != nil {
		return fmt.Errorf("load last stage: %w", err)
	}
	if !ok {
		return nil
	}
	for _, stage := range lifecycle.StageOrder {
		r.seen[stage] = struct{}{}
		if string(stage) == last {
			r.logger.Info("resume from recorded stage", zap.String("stage", last))
			return nil
		}
	}
	// Unknown recorded stage: start fresh rather than suppressing anything.
	r.seen = make(map[lifecycle.Stage]struct{})
	return nil
}

// recordTransitions emits one transition per stage the first time it shows
// up in the history for this runner. Stages are marked seen only once the
// store accepted them so a failed insert is retried on the next tick.
func (r *Runner) recordTransitions(ctx context.Context, snap *model.PoolSnapshot, status lifecycle.Status, now time.Time) error {
	stages := make([]lifecycle.Stage, 0, len(status.History))
	fresh := make([]model.StageTransition, 0, len(status.History))
	for _, stage := range status.History {
		if _, ok := r.seen[stage]; ok {
			continue
		}
		stages = append(stages, stage)
		fresh = append(fresh, model.StageTransition{
			ChainID:     snap.ChainID,
			PoolAddress: snap.Address,
			Stage:       string(stage),
			ObservedAt:  now,
		})
	}
	if len(fresh) == 0 {
		return nil
	}

	if r.transitions != nil {
		if err := r.transitions.InsertTransitions(ctx, fresh); err != nil {
			return fmt.Errorf("store transitions: %w", err)
		}
	}
	for _, stage := range stages {
		r.seen[stage] = struct{}{}
		r.logger.Info("stage entered", zap.String("pool", snap.Address), zap.String("stage", string(stage)))
	}
	return nil
}

func (r *Runner) loadWithRetry(ctx context.Context) (model.PoolRecord, error) {
	var record model.PoolRecord
	err := snapshot.WithRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		record, err = r.source.Load(ctx)
		if err != nil {
			r.logger.Warn("snapshot load failed", zap.Error(err))
		}
		return err
	})
	return record, err
}
