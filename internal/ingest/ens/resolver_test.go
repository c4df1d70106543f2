package ens

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeReader answers contract calls from canned responses keyed by target.
type fakeReader struct {
	resolverAddr common.Address // returned by the registry
	name         string         // returned by the resolver contract
	registryErr  error
	resolverErr  error
}

func (f *fakeReader) HeaderByNumber(ctx context.Context, n *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(0)}, nil
}

func (f *fakeReader) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if *msg.To == Registry {
		if f.registryErr != nil {
			return nil, f.registryErr
		}
		return common.LeftPadBytes(f.resolverAddr.Bytes(), 32), nil
	}
	if f.resolverErr != nil {
		return nil, f.resolverErr
	}
	return abiEncodeString(f.name), nil
}

// abiEncodeString packs a single string return value: offset, length, data.
func abiEncodeString(s string) []byte {
	out := make([]byte, 0, 96)
	out = append(out, common.LeftPadBytes(big.NewInt(32).Bytes(), 32)...)
	out = append(out, common.LeftPadBytes(big.NewInt(int64(len(s))).Bytes(), 32)...)
	out = append(out, common.RightPadBytes([]byte(s), (len(s)+31)/32*32)...)
	return out
}

func newTestResolver(r *fakeReader) *Resolver {
	res := NewResolver(r, nil)
	res.delay = 0
	return res
}

var donor = common.HexToAddress("0xAAaAaAaaAaAaAaaAaAAAAAAAAaaaAaAaAaaAaaAA")

func TestDisplayName_Resolved(t *testing.T) {
	r := newTestResolver(&fakeReader{
		resolverAddr: common.HexToAddress("0x1"),
		name:         "alice.eth",
	})
	if got := r.DisplayName(context.Background(), donor); got != "alice.eth" {
		t.Errorf("DisplayName = %q, want alice.eth", got)
	}
}

func TestDisplayName_FallbackCases(t *testing.T) {
	fallback := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	cases := map[string]*fakeReader{
		"zero resolver":      {resolverAddr: common.Address{}, name: "alice.eth"},
		"empty name":         {resolverAddr: common.HexToAddress("0x1"), name: ""},
		"registry unreached": {registryErr: errors.New("connection refused")},
		"resolver unreached": {resolverAddr: common.HexToAddress("0x1"), resolverErr: errors.New("timeout")},
	}
	for label, reader := range cases {
		if got := newTestResolver(reader).DisplayName(context.Background(), donor); got != fallback {
			t.Errorf("%s: DisplayName = %q, want %q", label, got, fallback)
		}
	}
}

// staticCache remembers names in a map and counts lookups.
type staticCache struct {
	names map[string]string
	hits  int
}

func (c *staticCache) GetName(ctx context.Context, address string) (string, bool, error) {
	name, ok := c.names[address]
	if ok {
		c.hits++
	}
	return name, ok, nil
}

func (c *staticCache) SetName(ctx context.Context, address, name string) error {
	c.names[address] = name
	return nil
}

func TestDisplayName_Cache(t *testing.T) {
	cache := &staticCache{names: map[string]string{}}
	r := NewResolver(&fakeReader{resolverAddr: common.HexToAddress("0x1"), name: "alice.eth"}, cache)
	r.delay = 0

	first := r.DisplayName(context.Background(), donor)
	second := r.DisplayName(context.Background(), donor)
	if first != "alice.eth" || second != "alice.eth" {
		t.Errorf("unexpected names: %q, %q", first, second)
	}
	if cache.hits != 1 {
		t.Errorf("expected second lookup to hit the cache, hits=%d", cache.hits)
	}
}
