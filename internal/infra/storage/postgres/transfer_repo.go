package postgres

import (
	"context"
	"fmt"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
)

// TransferRepo implements storage.TransferRepository using PostgreSQL.
type TransferRepo struct {
	db *DB
}

// NewTransferRepo creates a new PostgreSQL transfer repository.
func NewTransferRepo(db *DB) *TransferRepo {
	return &TransferRepo{db: db}
}

// Exists reports whether a transfer with this hash key was recorded.
func (r *TransferRepo) Exists(ctx context.Context, hashKey string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM eth_transfers WHERE hash_key = $1)`
	if err := r.db.GetContext(ctx, &exists, query, hashKey); err != nil {
		return false, fmt.Errorf("failed to check transfer: %w", err)
	}
	return exists, nil
}

// Insert records a new transfer row.
func (r *TransferRepo) Insert(ctx context.Context, t *domain.Transfer) error {
	query := `
		INSERT INTO eth_transfers (
			tx_hash, from_address, eth_amount, hash_key, from_name, created_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		t.TxHash, t.FromAddress, t.EthAmount, t.HashKey, t.FromName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

// List returns all recorded transfers in insertion order.
func (r *TransferRepo) List(ctx context.Context) ([]*domain.Transfer, error) {
	query := `
		SELECT tx_hash, from_address, eth_amount, hash_key, from_name
		FROM eth_transfers
		ORDER BY id
	`
	var rows []*domain.Transfer
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return rows, nil
}
