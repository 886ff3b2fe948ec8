// Package snapshot supplies pool records to the derivation core. A source is
// polled; each successful load replaces the previous record wholesale
// (last-write-wins), so stale in-flight results are simply discarded.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"poolscope/internal/model"
)

// Source loads the current pool record.
type Source interface {
	Load(ctx context.Context) (model.PoolRecord, error)
}

// FileSource reads a pool record from a JSON file on every load, picking up
// whatever the external fetch layer last wrote.
type FileSource struct {
	path string
}

// NewFileSource builds a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and parses the record file.
func (s *FileSource) Load(ctx context.Context) (model.PoolRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.PoolRecord{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.PoolRecord{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var record model.PoolRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.PoolRecord{}, fmt.Errorf("parse snapshot file: %w", err)
	}

	return record, nil
}
