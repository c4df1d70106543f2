// Package memory provides an in-memory persistence gateway, used when no
// database URL is configured and as the storage double in tests.
package memory

import (
	"context"
	"sync"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
)

type MemoryStorage struct {
	transfers     map[string]*domain.Transfer // keyed by hash key
	transferOrder []string
	donations     map[string]*domain.Donation
	donationOrder []string
	mu            sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		transfers: make(map[string]*domain.Transfer),
		donations: make(map[string]*domain.Donation),
	}
}

// -----------------------------------------------------------------------------
// Transfer Repository
// -----------------------------------------------------------------------------

type TransferRepo struct {
	store *MemoryStorage
}

func NewTransferRepo(store *MemoryStorage) *TransferRepo {
	return &TransferRepo{store: store}
}

func (r *TransferRepo) Exists(ctx context.Context, hashKey string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.transfers[hashKey]
	return ok, nil
}

func (r *TransferRepo) Insert(ctx context.Context, t *domain.Transfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *t
	if _, ok := r.store.transfers[t.HashKey]; !ok {
		r.store.transferOrder = append(r.store.transferOrder, t.HashKey)
	}
	r.store.transfers[t.HashKey] = &cp
	return nil
}

func (r *TransferRepo) List(ctx context.Context) ([]*domain.Transfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.Transfer, 0, len(r.store.transferOrder))
	for _, key := range r.store.transferOrder {
		cp := *r.store.transfers[key]
		out = append(out, &cp)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Donation Repository
// -----------------------------------------------------------------------------

type DonationRepo struct {
	store *MemoryStorage
}

func NewDonationRepo(store *MemoryStorage) *DonationRepo {
	return &DonationRepo{store: store}
}

func (r *DonationRepo) Exists(ctx context.Context, hashKey string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.donations[hashKey]
	return ok, nil
}

// Upsert mirrors the SQL conflict clause: an existing row only has its
// removed flag refreshed.
func (r *DonationRepo) Upsert(ctx context.Context, d *domain.Donation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.donations[d.HashKey]; ok {
		existing.Removed = d.Removed
		return nil
	}
	cp := *d
	r.store.donations[d.HashKey] = &cp
	r.store.donationOrder = append(r.store.donationOrder, d.HashKey)
	return nil
}

func (r *DonationRepo) ListActive(ctx context.Context) ([]*domain.Donation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.Donation, 0, len(r.store.donationOrder))
	for _, key := range r.store.donationOrder {
		if r.store.donations[key].Removed {
			continue
		}
		cp := *r.store.donations[key]
		out = append(out, &cp)
	}
	return out, nil
}
