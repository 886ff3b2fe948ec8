package storage

import (
	"context"

	"poolscope/internal/model"
)

// StatusSink receives derived status records.
type StatusSink interface {
	PutStatus(ctx context.Context, record model.StatusRecord) error
}
