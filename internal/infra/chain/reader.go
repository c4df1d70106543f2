// Package chain defines the read-only capability the ingestion pipeline needs
// from a blockchain node. Components depend on this interface rather than a
// concrete client so tests can substitute fakes and the transport can change
// without touching ingestion code.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// Reader is the subset of node RPC the watcher uses: head lookup, log range
// queries and read-only contract calls. *ethclient.Client satisfies it.
type Reader interface {
	// HeaderByNumber returns the header for the given block, or the latest
	// header when number is nil.
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)

	// FilterLogs returns the logs matching the filter query, ordered as the
	// node returns them.
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)

	// CallContract executes a read-only call at the given block (nil = latest).
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// LatestBlock returns the current head number.
func LatestBlock(ctx context.Context, r Reader) (uint64, error) {
	header, err := r.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}
