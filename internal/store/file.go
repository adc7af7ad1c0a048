// Package store loads engine snapshots from a JSON document on disk or from Redis, and
// saves company settings back.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"gstledger/internal/logger"
	"gstledger/pkg/models"
)

// FileStore reads a snapshot from a single JSON document with one key per collection.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore creates a store backed by the document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.WithComponent("file-store"),
	}
}

// Load implements services.SnapshotStore.
func (s *FileStore) Load(ctx context.Context) (*models.Snapshot, error) {
	const op = "Load"

	if err := ctx.Err(); err != nil {
		return nil, NewStoreError(op, s.path, err, "")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStoreError(op, s.path, ErrSnapshotUnavailable, "file does not exist")
		}
		return nil, NewStoreError(op, s.path, err, "failed to read file")
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, NewStoreError(op, s.path, invalid(err), "")
	}

	dropped := snap.DropDeleted()
	s.log.Debug().
		Str("path", s.path).
		Int("orders", len(snap.Orders)).
		Int("deleted_orders", dropped).
		Msg("Snapshot loaded")

	return &snap, nil
}

// SaveSettings implements services.SnapshotStore. Every other key of the document is kept
// as it is.
func (s *FileStore) SaveSettings(ctx context.Context, settings models.CompanySettings) error {
	const op = "SaveSettings"

	if err := ctx.Err(); err != nil {
		return NewStoreError(op, s.path, err, "")
	}

	doc := map[string]json.RawMessage{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			return NewStoreError(op, s.path, invalid(err), "")
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return NewStoreError(op, s.path, err, "failed to read file")
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return NewStoreError(op, s.path, err, "failed to encode settings")
	}
	doc["settings"] = raw

	if err := writeJSONFile(s.path, doc); err != nil {
		return NewStoreError(op, s.path, err, "")
	}

	s.log.Info().Str("path", s.path).Str("trade_name", settings.TradeName).Msg("Settings saved")
	return nil
}

// writeJSONFile writes v next to path and renames it into place.
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
