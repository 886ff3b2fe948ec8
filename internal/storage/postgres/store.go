package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolscope/internal/model"
)

// Store provides Postgres persistence for pools and derived lifecycle facts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPool inserts or updates the pool row for a snapshot.
func (s *Store) UpsertPool(ctx context.Context, snap *model.PoolSnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pools (
			chain_id, pool_address, sponsor, purchase_token, start_ts, purchase_expiry_ts,
			deal_deadline_ts, deal_address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (chain_id, pool_address)
		DO UPDATE SET
			sponsor = EXCLUDED.sponsor,
			purchase_token = EXCLUDED.purchase_token,
			start_ts = EXCLUDED.start_ts,
			purchase_expiry_ts = EXCLUDED.purchase_expiry_ts,
			deal_deadline_ts = EXCLUDED.deal_deadline_ts,
			deal_address = EXCLUDED.deal_address,
			updated_at = now()
	`,
		int64(snap.ChainID),
		snap.Address,
		snap.Sponsor,
		snap.PurchaseToken,
		snap.Start,
		snap.PurchaseExpiry,
		snap.DealDeadline,
		snap.DealAddress,
	)
	return err
}

// InsertTransitions records stage transitions, ignoring ones already seen.
// A pool enters each stage at most once, so conflicts are silently dropped.
func (s *Store) InsertTransitions(ctx context.Context, transitions []model.StageTransition) error {
	if len(transitions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, tr := range transitions {
		batch.Queue(`
			INSERT INTO pool_stage_transitions (
				chain_id, pool_address, stage, observed_at, created_at
			) VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (chain_id, pool_address, stage) DO NOTHING
		`,
			int64(tr.ChainID),
			tr.PoolAddress,
			tr.Stage,
			tr.ObservedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range transitions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutStatus satisfies the storage sink interface.
func (s *Store) PutStatus(ctx context.Context, record model.StatusRecord) error {
	return s.UpsertStatus(ctx, record)
}

// UpsertStatus upserts the latest derived status for a pool.
func (s *Store) UpsertStatus(ctx context.Context, record model.StatusRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_status (
			chain_id, pool_address, stage, history, role, actions, undetermined, observed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (chain_id, pool_address)
		DO UPDATE SET
			stage = EXCLUDED.stage,
			history = EXCLUDED.history,
			role = EXCLUDED.role,
			actions = EXCLUDED.actions,
			undetermined = EXCLUDED.undetermined,
			observed_at = EXCLUDED.observed_at,
			updated_at = now()
	`,
		int64(record.ChainID),
		record.PoolAddress,
		record.Stage,
		record.History,
		record.Role,
		record.Actions,
		record.Undetermined,
		record.ObservedAt,
	)
	return err
}

// LoadLastStage returns the last recorded stage for a pool.
func (s *Store) LoadLastStage(ctx context.Context, chainID uint64, poolAddress string) (string, bool, error) {
	if poolAddress == "" {
		return "", false, fmt.Errorf("pool address required")
	}
	var stage string
	row := s.pool.QueryRow(ctx,
		`SELECT stage FROM pool_status WHERE chain_id=$1 AND pool_address=$2`,
		int64(chainID), poolAddress)
	if err := row.Scan(&stage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return stage, true, nil
}
