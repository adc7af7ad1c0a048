package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gstledger/internal/config"
	"gstledger/internal/engine"
	"gstledger/internal/excel"
	"gstledger/internal/sheets"
	"gstledger/internal/store"
	"gstledger/pkg/services"
)

// snapshotStore is a store that may hold connections.
type snapshotStore interface {
	services.SnapshotStore
	Close() error
}

type fileStoreCloser struct {
	*store.FileStore
}

func (fileStoreCloser) Close() error { return nil }

// openStore picks the snapshot store from --input or the configured driver.
func openStore(cmd *cobra.Command, cfg *config.Config) snapshotStore {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		return fileStoreCloser{store.NewFileStore(input)}
	}

	if cfg.StoreDriver == config.StoreRedis {
		return store.NewRedisStore(store.RedisOptions{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
			Timeout:   cfg.RedisTimeout,
			CacheDir:  cfg.CacheDir,
		})
	}
	return fileStoreCloser{store.NewFileStore(cfg.SnapshotFile)}
}

// legacySources returns the extra legacy inventory sources that are configured.
func legacySources(ctx context.Context, cmd *cobra.Command, cfg *config.Config) ([]services.LegacySource, error) {
	var sources []services.LegacySource

	path, _ := cmd.Flags().GetString("legacy-xlsx")
	if path == "" {
		path = cfg.LegacyXLSX
	}
	if path != "" {
		sources = append(sources, excel.NewFileSource(path))
	}

	if cfg.LegacySheet != "" {
		sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets service: %w", err)
		}
		sources = append(sources, sheets.NewLegacyReader(sheetsService, cfg.LegacySheet))
	}

	return sources, nil
}

func parseAsOf(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("as-of")
	if raw == "" {
		return time.Now(), nil
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date format. Use YYYY-MM-DD: %w", err)
	}
	return asOf, nil
}

// compute loads the configured snapshot and legacy rows and runs the engine once.
func compute(cmd *cobra.Command) (*engine.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	asOf, err := parseAsOf(cmd)
	if err != nil {
		return nil, err
	}

	ctx := commandContext(cmd)

	snapshots := openStore(cmd, cfg)
	defer snapshots.Close()

	sources, err := legacySources(ctx, cmd, cfg)
	if err != nil {
		return nil, err
	}

	snap, err := engine.Gather(ctx, snapshots, sources...)
	if err != nil {
		return nil, err
	}
	return engine.Compute(snap, engine.Options{AsOf: asOf}), nil
}
