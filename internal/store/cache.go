package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gstledger/pkg/models"
)

// cacheFileName is the snapshot file kept inside the cache directory.
const cacheFileName = "snapshot.json"

// Cache keeps the last snapshot read from a remote store on local disk.
type Cache struct {
	path string
}

// NewCache creates a cache inside dir.
func NewCache(dir string) *Cache {
	return &Cache{path: filepath.Join(dir, cacheFileName)}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Read returns the cached snapshot. A missing file yields ErrSnapshotUnavailable.
func (c *Cache) Read() (*models.Snapshot, error) {
	const op = "ReadCache"

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStoreError(op, c.path, ErrSnapshotUnavailable, "no cached snapshot")
		}
		return nil, NewStoreError(op, c.path, err, "failed to read cache")
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, NewStoreError(op, c.path, invalid(err), "")
	}
	return &snap, nil
}

// Write replaces the cached snapshot.
func (c *Cache) Write(snap *models.Snapshot) error {
	const op = "WriteCache"

	if err := writeJSONFile(c.path, snap); err != nil {
		return NewStoreError(op, c.path, err, "")
	}
	return nil
}
