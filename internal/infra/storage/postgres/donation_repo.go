package postgres

import (
	"context"
	"fmt"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
)

// DonationRepo implements storage.DonationRepository using PostgreSQL.
type DonationRepo struct {
	db *DB
}

// NewDonationRepo creates a new PostgreSQL donation repository.
func NewDonationRepo(db *DB) *DonationRepo {
	return &DonationRepo{db: db}
}

// Exists reports whether a donation with this hash key was recorded.
func (r *DonationRepo) Exists(ctx context.Context, hashKey string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM donations WHERE hash_key = $1)`
	if err := r.db.GetContext(ctx, &exists, query, hashKey); err != nil {
		return false, fmt.Errorf("failed to check donation: %w", err)
	}
	return exists, nil
}

// Upsert inserts a donation. On hash key conflict only the removed flag is
// refreshed: a later sighting of a known donation can retract it after a
// reorg, but never rewrites amount, sender or name.
func (r *DonationRepo) Upsert(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (
			removed, tx_hash, log_index, from_address, eth_amount, hash_key, from_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (hash_key) DO UPDATE SET
			removed = EXCLUDED.removed
	`
	_, err := r.db.ExecContext(ctx, query,
		d.Removed, d.TxHash, d.LogIndex, d.FromAddress, d.EthAmount, d.HashKey, d.FromName,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert donation: %w", err)
	}
	return nil
}

// ListActive returns donations whose logs have not been retracted.
func (r *DonationRepo) ListActive(ctx context.Context) ([]*domain.Donation, error) {
	query := `
		SELECT removed, tx_hash, log_index, from_address, eth_amount, hash_key, from_name
		FROM donations
		WHERE removed = FALSE
		ORDER BY id
	`
	var rows []*domain.Donation
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return rows, nil
}
