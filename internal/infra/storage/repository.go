// Package storage defines the persistence gateway the ingestion pipeline
// writes through. Rows are owned by the store once inserted; the pipeline only
// checks existence, inserts new rows, and flips the donation removed flag.
package storage

import (
	"context"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
)

// TransferRepository handles explorer-reported transfer rows.
type TransferRepository interface {
	// Exists reports whether a transfer with this hash key was recorded.
	Exists(ctx context.Context, hashKey string) (bool, error)

	// Insert records a new transfer. Transfers are immutable once inserted.
	Insert(ctx context.Context, transfer *domain.Transfer) error

	// List returns all recorded transfers.
	List(ctx context.Context) ([]*domain.Transfer, error)
}

// DonationRepository handles donation event rows.
type DonationRepository interface {
	// Exists reports whether a donation with this hash key was recorded.
	Exists(ctx context.Context, hashKey string) (bool, error)

	// Upsert inserts a donation, or on hash key conflict updates only the
	// removed flag of the stored row.
	Upsert(ctx context.Context, donation *domain.Donation) error

	// ListActive returns donations that have not been retracted by a reorg.
	ListActive(ctx context.Context) ([]*domain.Donation, error)
}
