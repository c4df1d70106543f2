// Package scanner walks block ranges for contract logs and feeds each log to
// a handler. Windows from consecutive passes overlap on purpose; the handler
// is expected to absorb duplicate sightings.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/trungle-dev/ethtribute/internal/infra/chain"
	"github.com/trungle-dev/ethtribute/internal/ingest/metrics"
)

const (
	// BackfillSpan is the block distance covered by one historical window.
	BackfillSpan = 49999
	// IncrementalSpan is the trailing distance scanned each poll cycle.
	IncrementalSpan = 64
)

// LogHandler consumes one matched log.
type LogHandler interface {
	HandleLog(ctx context.Context, lg types.Log) error
}

// Scanner queries logs emitted by one contract.
type Scanner struct {
	reader     chain.Reader
	contract   common.Address
	startBlock uint64
	handler    LogHandler
	log        *slog.Logger
}

// New creates a scanner for the given contract. startBlock bounds the
// backfill pass; blocks below it are never queried.
func New(reader chain.Reader, contract common.Address, startBlock uint64, handler LogHandler) *Scanner {
	return &Scanner{
		reader:     reader,
		contract:   contract,
		startBlock: startBlock,
		handler:    handler,
		log:        slog.Default(),
	}
}

// Window is an inclusive block range for one log query.
type Window struct {
	From uint64
	To   uint64
}

// BackfillWindows cuts [startBlock, head] into span-wide windows walked from
// the head backwards. Adjacent windows share their boundary block except the
// final one, which stops just below the last queried boundary.
func BackfillWindows(head, startBlock, span uint64) []Window {
	if head <= startBlock {
		return nil
	}
	var wins []Window
	end := head
	boundaryQueried := false
	for end > startBlock {
		var start uint64
		if end > span {
			start = end - span
		}
		if start > startBlock {
			wins = append(wins, Window{From: start, To: end})
			end = start
			boundaryQueried = true
			continue
		}
		to := end
		if boundaryQueried {
			to = end - 1
		}
		wins = append(wins, Window{From: startBlock, To: to})
		break
	}
	return wins
}

// Backfill runs the one-time historical pass from the current head down to
// the configured start block.
func (s *Scanner) Backfill(ctx context.Context) error {
	head, err := chain.LatestBlock(ctx, s.reader)
	if err != nil {
		return fmt.Errorf("fetch chain head: %w", err)
	}
	metrics.ScanHead.Set(float64(head))

	windows := BackfillWindows(head, s.startBlock, BackfillSpan)
	s.log.Info("Starting backfill", "head", head, "start_block", s.startBlock, "windows", len(windows))

	for _, w := range windows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.scanWindow(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// Incremental scans the trailing window ending at the current head. Overlap
// with the previous cycle is expected.
func (s *Scanner) Incremental(ctx context.Context) error {
	head, err := chain.LatestBlock(ctx, s.reader)
	if err != nil {
		return fmt.Errorf("fetch chain head: %w", err)
	}
	metrics.ScanHead.Set(float64(head))

	var from uint64
	if head > IncrementalSpan {
		from = head - IncrementalSpan
	}
	return s.scanWindow(ctx, Window{From: from, To: head})
}

func (s *Scanner) scanWindow(ctx context.Context, w Window) error {
	q := ethereum.FilterQuery{
		Addresses: []common.Address{s.contract},
		FromBlock: new(big.Int).SetUint64(w.From),
		ToBlock:   new(big.Int).SetUint64(w.To),
	}
	logs, err := s.reader.FilterLogs(ctx, q)
	if err != nil {
		return fmt.Errorf("get logs [%d, %d]: %w", w.From, w.To, err)
	}
	s.log.Debug("Scanned window", "from", w.From, "to", w.To, "logs", len(logs))

	for _, lg := range logs {
		if err := s.handler.HandleLog(ctx, lg); err != nil {
			return err
		}
	}
	return nil
}
