package services

import (
	"context"

	"gstledger/pkg/models"
)

// SnapshotStore defines the interface for the persistence collaborator behind the engine
type SnapshotStore interface {
	// Load fetches every source collection. Soft-deleted orders are already removed.
	Load(ctx context.Context) (*models.Snapshot, error)

	// SaveSettings replaces the stored company settings as a whole
	SaveSettings(ctx context.Context, settings models.CompanySettings) error
}

// LegacySource supplies legacy inventory purchase rows from outside the snapshot,
// e.g. a spreadsheet export of the old stock register.
type LegacySource interface {
	LegacyPurchases(ctx context.Context) ([]models.LegacyPurchase, error)
}
