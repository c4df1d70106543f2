// Package donation turns Donation event logs into persisted donation rows.
package donation

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
	"github.com/trungle-dev/ethtribute/internal/infra/storage"
	"github.com/trungle-dev/ethtribute/internal/ingest/metrics"
)

// Topic is the signature hash of Donation(address indexed donor, uint256 amount).
var Topic = crypto.Keccak256Hash([]byte("Donation(address,uint256)"))

// NameResolver resolves a sender address to a display name. Implementations
// never fail; they fall back to the normalized address.
type NameResolver interface {
	DisplayName(ctx context.Context, address common.Address) string
}

// Processor decodes and upserts donation events.
type Processor struct {
	donations storage.DonationRepository
	resolver  NameResolver
	log       *slog.Logger
}

// NewProcessor creates a donation processor.
func NewProcessor(donations storage.DonationRepository, resolver NameResolver) *Processor {
	return &Processor{
		donations: donations,
		resolver:  resolver,
		log:       slog.Default(),
	}
}

// HandleLog decodes one log as a Donation event and upserts it. Undecodable
// logs are skipped. A known hash key skips name resolution but still upserts,
// because a re-sighting may carry removed=true after a reorg.
func (p *Processor) HandleLog(ctx context.Context, lg types.Log) error {
	donor, amount, ok := decode(lg)
	if !ok {
		p.log.Warn("Skipping undecodable log",
			"tx", lg.TxHash, "index", lg.Index, "topics", len(lg.Topics))
		return nil
	}

	txHash := lg.TxHash.Hex()
	logIndex := strconv.FormatUint(uint64(lg.Index), 10)
	fromAddress := donor.Hex()
	hashKey := domain.DonationHashKey(amount.String(), fromAddress, txHash, logIndex)

	exists, err := p.donations.Exists(ctx, hashKey)
	if err != nil {
		return fmt.Errorf("check donation %s: %w", hashKey, err)
	}

	var fromName string
	if !exists {
		fromName = p.resolver.DisplayName(ctx, donor)
		p.log.Info("New donation", "from", fromName, "amount", domain.WeiToEth(amount), "tx", txHash)
		metrics.DonationsRecorded.WithLabelValues("new").Inc()
	} else {
		metrics.DonationsRecorded.WithLabelValues("resighted").Inc()
	}

	return p.donations.Upsert(ctx, &domain.Donation{
		Removed:     lg.Removed,
		TxHash:      txHash,
		LogIndex:    logIndex,
		FromAddress: fromAddress,
		EthAmount:   domain.WeiToEth(amount),
		HashKey:     hashKey,
		FromName:    fromName,
	})
}

func decode(lg types.Log) (common.Address, *big.Int, bool) {
	if len(lg.Topics) != 2 || lg.Topics[0] != Topic {
		return common.Address{}, nil, false
	}
	if len(lg.Data) != 32 {
		return common.Address{}, nil, false
	}
	donor := common.BytesToAddress(lg.Topics[1].Bytes())
	amount := new(big.Int).SetBytes(lg.Data)
	return donor, amount, true
}
