package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/pkg/models"
)

const snapshotDoc = `{
  "orders": [
    {"id": "O1", "date": "2024-04-02", "buyerId": "B1", "subtotal": 1050, "items": []},
    {"id": "O2", "date": "2024-04-03", "status": "deleted", "subtotal": 500, "items": []},
    {"id": "O3", "date": "2024-04-04", "status": "Cancelled", "subtotal": 200, "items": []}
  ],
  "vendors": [{"id": "V1", "name": "Ramesh"}],
  "buyers": [{"id": "B1", "name": "Asha", "gstin": "24ABCDE1234F1Z5"}],
  "expenses": [],
  "products": [],
  "extra": {"keep": true}
}`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func orderIDs(snap *models.Snapshot) []string {
	ids := make([]string, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestFileStore_Load(t *testing.T) {
	store := NewFileStore(writeDoc(t, snapshotDoc))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"O1", "O3"}, orderIDs(snap))
	require.Len(t, snap.Buyers, 1)
	assert.Equal(t, "24ABCDE1234F1Z5", snap.Buyers[0].GSTIN)
	assert.Nil(t, snap.Settings)
	assert.Equal(t, "Gujarat", snap.EffectiveSettings().HomeState)
}

func TestFileStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: ErrSnapshotUnavailable,
		},
		{
			name:    "invalid json",
			path:    func(t *testing.T) string { return writeDoc(t, `{"orders": [`) },
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "wrong collection type",
			path:    func(t *testing.T) string { return writeDoc(t, `{"orders": {"id": "O1"}}`) },
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileStore(tt.path(t)).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var storeErr *StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, "Load", storeErr.Op)
		})
	}
}

func TestFileStore_SaveSettings(t *testing.T) {
	path := writeDoc(t, snapshotDoc)
	store := NewFileStore(path)

	settings := models.DefaultSettings()
	settings.TradeName = "Asha Textiles"
	settings.HomeState = "Maharashtra"
	require.NoError(t, store.SaveSettings(context.Background(), settings))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Settings)
	assert.Equal(t, "Asha Textiles", snap.Settings.TradeName)
	assert.Equal(t, "Maharashtra", snap.EffectiveSettings().HomeState)
	assert.Equal(t, []string{"O1", "O3"}, orderIDs(snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "extra")
	assert.Contains(t, string(doc["orders"]), `"O2"`, "deleted orders stay in the document")
}

func TestFileStore_SaveSettingsCreatesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	store := NewFileStore(path)

	require.NoError(t, store.SaveSettings(context.Background(), models.DefaultSettings()))

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Orders)
	require.NotNil(t, snap.Settings)
	assert.Equal(t, "My Business", snap.Settings.TradeName)
}

func TestStoreError(t *testing.T) {
	err := NewStoreError("Load", "gstledger:orders", ErrInvalidDocument, "bad payload")
	assert.Equal(t, "store: Load gstledger:orders failed: bad payload: invalid stored document", err.Error())
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.NotErrorIs(t, err, ErrSnapshotUnavailable)

	assert.Nil(t, WrapStoreError("Load", "", nil, ""))
	assert.Same(t, err, WrapStoreError("Other", "", err, "").(*StoreError))
}

// unreachableRedis points at a port nothing listens on.
func unreachableRedis(t *testing.T) *RedisStore {
	t.Helper()
	s := NewRedisStore(RedisOptions{
		Address:    "127.0.0.1:1",
		KeyPrefix:  "test:",
		Timeout:    200 * time.Millisecond,
		CacheDir:   t.TempDir(),
		MaxRetries: -1,
	})
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStore_FallsBackToCache(t *testing.T) {
	s := unreachableRedis(t)

	var cached models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(snapshotDoc), &cached))
	require.NoError(t, s.cache.Write(&cached))

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"O1", "O3"}, orderIDs(snap))
	assert.Len(t, snap.Vendors, 1)
}

func TestRedisStore_UnavailableWithoutCache(t *testing.T) {
	s := unreachableRedis(t)

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)
}

func TestRedisStore_SaveSettingsFails(t *testing.T) {
	s := unreachableRedis(t)

	err := s.SaveSettings(context.Background(), models.DefaultSettings())
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "test:settings", storeErr.Key)
}

func TestRedisStore_Decode(t *testing.T) {
	s := unreachableRedis(t)

	t.Run("missing keys leave collections empty", func(t *testing.T) {
		snap, err := s.decode([]interface{}{
			`[{"id": "O1", "subtotal": "1,050"}]`,
			nil,
			nil,
			nil,
			nil,
			`{"tradeName": "Asha Textiles", "homeState": "Kerala"}`,
		})
		require.NoError(t, err)
		require.Len(t, snap.Orders, 1)
		assert.Equal(t, "1050", snap.Orders[0].Subtotal.Decimal().String())
		assert.Empty(t, snap.Vendors)
		assert.Equal(t, "Kerala", snap.EffectiveSettings().HomeState)
	})

	t.Run("no settings means defaults", func(t *testing.T) {
		snap, err := s.decode(make([]interface{}, len(collectionKeys)))
		require.NoError(t, err)
		assert.Nil(t, snap.Settings)
		assert.Equal(t, "Gujarat", snap.EffectiveSettings().HomeState)
	})

	t.Run("invalid collection", func(t *testing.T) {
		_, err := s.decode([]interface{}{nil, `{"not": "a list"}`})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDocument)

		var storeErr *StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "test:vendors", storeErr.Key)
	})
}

func TestCache_ReadMissing(t *testing.T) {
	_, err := NewCache(t.TempDir()).Read()
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)
}
