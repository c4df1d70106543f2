// Package transfer reconciles explorer-reported transactions against the
// persisted transfer set.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
	"github.com/trungle-dev/ethtribute/internal/infra/explorer"
	"github.com/trungle-dev/ethtribute/internal/infra/storage"
	"github.com/trungle-dev/ethtribute/internal/ingest/metrics"
)

// ExplorerAPI is the explorer surface the reconciler consumes.
type ExplorerAPI interface {
	TxList(ctx context.Context, address string) ([]explorer.Transaction, error)
	TxListInternal(ctx context.Context, address string) ([]explorer.Transaction, error)
}

// NameResolver resolves a sender address to a display name. Implementations
// never fail; they fall back to the normalized address.
type NameResolver interface {
	DisplayName(ctx context.Context, address common.Address) string
}

// Reconciler pulls the full reported history for the target address each
// cycle and inserts the entries not yet persisted.
type Reconciler struct {
	explorer  ExplorerAPI
	transfers storage.TransferRepository
	resolver  NameResolver
	target    string
	log       *slog.Logger
}

// NewReconciler creates a reconciler for the target address.
func NewReconciler(api ExplorerAPI, transfers storage.TransferRepository, resolver NameResolver, target string) *Reconciler {
	return &Reconciler{
		explorer:  api,
		transfers: transfers,
		resolver:  resolver,
		target:    target,
		log:       slog.Default(),
	}
}

// Reconcile fetches regular and internal transaction lists, filters to
// inbound nonzero transfers and persists the unseen ones. One list failing is
// tolerated; both failing aborts the cycle step with a retryable error.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	var (
		normal, internal       []explorer.Transaction
		normalErr, internalErr error
	)

	// The two fetches are independent; a failure of one must not cancel
	// the other, so errors are collected instead of returned to the group.
	var g errgroup.Group
	g.Go(func() error {
		normal, normalErr = r.explorer.TxList(ctx, r.target)
		return nil
	})
	g.Go(func() error {
		internal, internalErr = r.explorer.TxListInternal(ctx, r.target)
		return nil
	})
	_ = g.Wait()

	if normalErr != nil && internalErr != nil {
		return fmt.Errorf("explorer fetch failed: %w", errors.Join(normalErr, internalErr))
	}
	if normalErr != nil {
		r.log.Warn("txlist fetch failed, proceeding with internal calls only", "error", normalErr)
	}
	if internalErr != nil {
		r.log.Warn("txlistinternal fetch failed, proceeding with regular sends only", "error", internalErr)
	}

	for _, tx := range append(normal, internal...) {
		if err := r.reconcileOne(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, tx explorer.Transaction) error {
	if !strings.EqualFold(tx.To, r.target) {
		return nil
	}
	wei, ok := domain.ParseWei(tx.Value)
	if !ok {
		r.log.Warn("Skipping transfer with unparsable value", "tx", tx.Hash, "value", tx.Value)
		return nil
	}
	// Zero value marks a failed or no-op transaction.
	if wei.Sign() <= 0 {
		return nil
	}

	hashKey := domain.TransferHashKey(tx.Value, tx.From, tx.Hash)
	exists, err := r.transfers.Exists(ctx, hashKey)
	if err != nil {
		return fmt.Errorf("check transfer %s: %w", hashKey, err)
	}
	if exists {
		return nil
	}

	fromName := r.resolver.DisplayName(ctx, common.HexToAddress(tx.From))
	amount := domain.WeiToEth(wei)
	r.log.Info("New transfer", "from", fromName, "amount", amount, "tx", tx.Hash)

	if err := r.transfers.Insert(ctx, &domain.Transfer{
		TxHash:      tx.Hash,
		FromAddress: tx.From,
		EthAmount:   amount,
		HashKey:     hashKey,
		FromName:    fromName,
	}); err != nil {
		return fmt.Errorf("insert transfer %s: %w", hashKey, err)
	}
	metrics.TransfersRecorded.Inc()
	return nil
}
