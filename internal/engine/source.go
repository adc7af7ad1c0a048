package engine

import (
	"context"
	"fmt"

	"gstledger/internal/logger"
	"gstledger/pkg/models"
	"gstledger/pkg/services"
)

// Gather loads a snapshot from store and appends the legacy purchase rows of every extra
// source to its products collection.
func Gather(ctx context.Context, store services.SnapshotStore, sources ...services.LegacySource) (*models.Snapshot, error) {
	const op = "Gather"

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load snapshot: %w", op, err)
	}

	log := logger.FromContext(ctx)
	for _, source := range sources {
		if source == nil {
			continue
		}
		rows, err := source.LegacyPurchases(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read legacy purchases: %w", op, err)
		}
		log.Debug().Int("rows", len(rows)).Msg("Merged legacy purchases")
		snap.Products = append(snap.Products, rows...)
	}

	return snap, nil
}
