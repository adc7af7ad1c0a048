package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"gstledger/internal/logger"
	"gstledger/pkg/models"
)

// Collection keys, stored under the configured prefix.
const (
	KeyOrders   = "orders"
	KeyVendors  = "vendors"
	KeyBuyers   = "buyers"
	KeyExpenses = "expenses"
	KeyProducts = "products"
	KeySettings = "settings"
)

var collectionKeys = []string{KeyOrders, KeyVendors, KeyBuyers, KeyExpenses, KeyProducts, KeySettings}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
	Timeout   time.Duration
	CacheDir  string

	// MaxRetries is passed to the client; -1 disables retries.
	MaxRetries int
}

// RedisStore keeps one JSON value per collection. Every successful load refreshes the
// local cache, which is served when Redis cannot be reached.
type RedisStore struct {
	client *redis.Client
	prefix string
	cache  *Cache
	log    zerolog.Logger
}

// NewRedisStore creates a store for the given server. No connection is made until first use.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
		MaxRetries:   opts.MaxRetries,
	})

	return &RedisStore{
		client: client,
		prefix: opts.KeyPrefix,
		cache:  NewCache(opts.CacheDir),
		log:    logger.WithComponent("redis-store"),
	}
}

// Close releases the client connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

// Load implements services.SnapshotStore.
func (s *RedisStore) Load(ctx context.Context) (*models.Snapshot, error) {
	const op = "Load"

	keys := make([]string, len(collectionKeys))
	for i, name := range collectionKeys {
		keys[i] = s.key(name)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return s.fallback(op, err)
	}

	snap, err := s.decode(values)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Write(snap); err != nil {
		s.log.Warn().Err(err).Msg("Failed to refresh snapshot cache")
	}

	dropped := snap.DropDeleted()
	s.log.Debug().
		Int("orders", len(snap.Orders)).
		Int("deleted_orders", dropped).
		Msg("Snapshot loaded from redis")

	return snap, nil
}

// fallback serves the cached snapshot after a redis failure.
func (s *RedisStore) fallback(op string, cause error) (*models.Snapshot, error) {
	s.log.Warn().Err(cause).Str("cache", s.cache.Path()).Msg("Redis unavailable, using cached snapshot")

	snap, err := s.cache.Read()
	if err != nil {
		return nil, NewStoreError(op, s.prefix, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, cause), "redis unreachable and no usable cache")
	}
	snap.DropDeleted()
	return snap, nil
}

// decode maps MGET values, in collectionKeys order, onto a snapshot. Missing keys leave
// the collection empty.
func (s *RedisStore) decode(values []interface{}) (*models.Snapshot, error) {
	const op = "decode"

	snap := &models.Snapshot{}
	targets := map[string]interface{}{
		KeyOrders:   &snap.Orders,
		KeyVendors:  &snap.Vendors,
		KeyBuyers:   &snap.Buyers,
		KeyExpenses: &snap.Expenses,
		KeyProducts: &snap.Products,
		KeySettings: &snap.Settings,
	}

	for i, name := range collectionKeys {
		if i >= len(values) || values[i] == nil {
			continue
		}
		raw, ok := values[i].(string)
		if !ok {
			return nil, NewStoreError(op, s.key(name), ErrInvalidDocument, fmt.Sprintf("unexpected value type %T", values[i]))
		}
		if err := json.Unmarshal([]byte(raw), targets[name]); err != nil {
			return nil, NewStoreError(op, s.key(name), invalid(err), "")
		}
	}
	return snap, nil
}

// SaveSettings implements services.SnapshotStore.
func (s *RedisStore) SaveSettings(ctx context.Context, settings models.CompanySettings) error {
	const op = "SaveSettings"

	data, err := json.Marshal(settings)
	if err != nil {
		return NewStoreError(op, s.key(KeySettings), err, "failed to encode settings")
	}
	if err := s.client.Set(ctx, s.key(KeySettings), data, 0).Err(); err != nil {
		return NewStoreError(op, s.key(KeySettings), err, "")
	}

	if snap, err := s.cache.Read(); err == nil {
		snap.Settings = &settings
		if err := s.cache.Write(snap); err != nil {
			s.log.Warn().Err(err).Msg("Failed to refresh snapshot cache")
		}
	}

	s.log.Info().Str("trade_name", settings.TradeName).Msg("Settings saved")
	return nil
}

// Seed writes every collection of snap in a single pipeline, replacing what is stored.
// Settings are only written when snap carries them.
func (s *RedisStore) Seed(ctx context.Context, snap *models.Snapshot) error {
	const op = "Seed"

	values := map[string]interface{}{
		KeyOrders:   snap.Orders,
		KeyVendors:  snap.Vendors,
		KeyBuyers:   snap.Buyers,
		KeyExpenses: snap.Expenses,
		KeyProducts: snap.Products,
	}
	if snap.Settings != nil {
		values[KeySettings] = snap.Settings
	}

	pipe := s.client.TxPipeline()
	for _, name := range collectionKeys {
		v, ok := values[name]
		if !ok {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return NewStoreError(op, s.key(name), err, "failed to encode collection")
		}
		pipe.Set(ctx, s.key(name), data, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return NewStoreError(op, s.prefix, err, "")
	}

	s.log.Info().
		Int("orders", len(snap.Orders)).
		Int("vendors", len(snap.Vendors)).
		Int("buyers", len(snap.Buyers)).
		Msg("Snapshot seeded into redis")
	return nil
}
