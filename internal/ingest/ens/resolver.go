// Package ens resolves addresses to display names through the ENS reverse
// registrar: registry.resolver(node) followed by resolver.name(node).
// Resolution is best-effort; every failure degrades to the normalized
// address so enrichment can never abort ingestion.
package ens

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trungle-dev/ethtribute/internal/infra/chain"
	"github.com/trungle-dev/ethtribute/internal/ingest/metrics"
)

// DefaultLookupDelay is the pause before a lookup sequence. Resolution is off
// the hot path and the two eth_calls count against provider rate limits.
const DefaultLookupDelay = time.Second

// Registry is the mainnet ENS registry.
var Registry = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var (
	resolverSelector = crypto.Keccak256([]byte("resolver(bytes32)"))[:4]
	nameSelector     = crypto.Keccak256([]byte("name(bytes32)"))[:4]
	stringArgs       abi.Arguments
)

func init() {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	stringArgs = abi.Arguments{{Type: stringType}}
}

// NameCache stores resolved names keyed by normalized address.
type NameCache interface {
	GetName(ctx context.Context, address string) (name string, found bool, err error)
	SetName(ctx context.Context, address, name string) error
}

// Resolver performs reverse lookups against an ENS registry.
type Resolver struct {
	reader   chain.Reader
	registry common.Address
	cache    NameCache // may be nil
	delay    time.Duration
	log      *slog.Logger
}

// NewResolver creates a resolver backed by the given chain reader. cache may
// be nil to disable caching.
func NewResolver(reader chain.Reader, cache NameCache) *Resolver {
	return &Resolver{
		reader:   reader,
		registry: Registry,
		cache:    cache,
		delay:    DefaultLookupDelay,
		log:      slog.Default(),
	}
}

// DisplayName returns the reverse-resolved name for an address, falling back
// to the lowercase hex address when no record exists or any call fails.
func (r *Resolver) DisplayName(ctx context.Context, address common.Address) string {
	fallback := strings.ToLower(address.Hex())

	if r.cache != nil {
		if name, found, err := r.cache.GetName(ctx, fallback); err == nil && found {
			metrics.NameLookups.WithLabelValues("cached").Inc()
			return name
		}
	}

	name, ok := r.resolve(ctx, address)
	if !ok {
		metrics.NameLookups.WithLabelValues("fallback").Inc()
		name = fallback
	} else {
		metrics.NameLookups.WithLabelValues("resolved").Inc()
	}

	if r.cache != nil {
		if err := r.cache.SetName(ctx, fallback, name); err != nil {
			r.log.Debug("Failed to cache display name", "address", fallback, "error", err)
		}
	}
	return name
}

func (r *Resolver) resolve(ctx context.Context, address common.Address) (string, bool) {
	// Fixed pre-lookup pause to stay under provider rate limits.
	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return "", false
		case <-time.After(r.delay):
		}
	}

	reverseName := hex.EncodeToString(address.Bytes()) + ".addr.reverse"
	node, ok := Namehash(reverseName)
	if !ok {
		return "", false
	}

	out, err := r.call(ctx, r.registry, resolverSelector, node)
	if err != nil {
		r.log.Warn("ENS registry call failed", "address", address, "error", err)
		return "", false
	}
	if len(out) < 32 {
		return "", false
	}
	resolverAddr := common.BytesToAddress(out[12:32])
	if resolverAddr == (common.Address{}) {
		return "", false
	}

	out, err = r.call(ctx, resolverAddr, nameSelector, node)
	if err != nil {
		r.log.Warn("ENS resolver call failed", "address", address, "resolver", resolverAddr, "error", err)
		return "", false
	}
	vals, err := stringArgs.Unpack(out)
	if err != nil {
		r.log.Warn("Failed to decode resolved name", "address", address, "error", err)
		return "", false
	}
	name, _ := vals[0].(string)
	if name == "" {
		return "", false
	}
	return name, true
}

func (r *Resolver) call(ctx context.Context, to common.Address, selector []byte, node common.Hash) ([]byte, error) {
	data := make([]byte, 0, 4+32)
	data = append(data, selector...)
	data = append(data, node.Bytes()...)
	return r.reader.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}
