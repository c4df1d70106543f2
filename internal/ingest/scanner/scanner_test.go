package scanner

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func TestBackfillWindows(t *testing.T) {
	cases := []struct {
		name       string
		head       uint64
		startBlock uint64
		want       []Window
	}{
		{
			name: "multiple windows walk backwards",
			head: 120000, startBlock: 1000,
			want: []Window{{70001, 120000}, {20002, 70001}, {1000, 20001}},
		},
		{
			name: "range fits in one window",
			head: 1100, startBlock: 1000,
			want: []Window{{1000, 1100}},
		},
		{
			name: "head at start block",
			head: 1000, startBlock: 1000,
			want: nil,
		},
		{
			name: "head below start block",
			head: 900, startBlock: 1000,
			want: nil,
		},
		{
			name: "start block zero",
			head: 60000, startBlock: 0,
			want: []Window{{10001, 60000}, {0, 10000}},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BackfillWindows(c.head, c.startBlock, BackfillSpan)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("window %d: got %v, want %v", i, got[i], c.want[i])
				}
			}
		})
	}
}

// fakeReader records the filter queries it receives.
type fakeReader struct {
	head    uint64
	headErr error
	logs    []types.Log
	logsErr error
	queries []ethereum.FilterQuery
}

func (f *fakeReader) HeaderByNumber(ctx context.Context, n *big.Int) (*types.Header, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &types.Header{Number: new(big.Int).SetUint64(f.head)}, nil
}

func (f *fakeReader) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.queries = append(f.queries, q)
	return f.logs, f.logsErr
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	return nil, nil
}

// collector counts handled logs.
type collector struct {
	handled []types.Log
	err     error
}

func (c *collector) HandleLog(ctx context.Context, lg types.Log) error {
	c.handled = append(c.handled, lg)
	return c.err
}

var contract = common.HexToAddress("0x00000000000000000000000000000000000000d0")

func TestBackfill_QueriesEveryWindow(t *testing.T) {
	reader := &fakeReader{head: 120000, logs: []types.Log{{BlockNumber: 1}}}
	sink := &collector{}
	s := New(reader, contract, 1000, sink)

	if err := s.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill failed: %v", err)
	}
	if len(reader.queries) != 3 {
		t.Fatalf("expected 3 window queries, got %d", len(reader.queries))
	}
	first := reader.queries[0]
	if first.FromBlock.Uint64() != 70001 || first.ToBlock.Uint64() != 120000 {
		t.Errorf("first window [%s, %s]", first.FromBlock, first.ToBlock)
	}
	if len(first.Addresses) != 1 || first.Addresses[0] != contract {
		t.Errorf("filter not scoped to contract: %v", first.Addresses)
	}
	// One log per window handed to the processor.
	if len(sink.handled) != 3 {
		t.Errorf("expected 3 handled logs, got %d", len(sink.handled))
	}
}

func TestBackfill_HeadFetchFails(t *testing.T) {
	reader := &fakeReader{headErr: errors.New("unreachable")}
	s := New(reader, contract, 0, &collector{})
	if err := s.Backfill(context.Background()); err == nil {
		t.Fatal("expected error when head fetch fails")
	}
}

func TestIncremental_TrailingWindow(t *testing.T) {
	reader := &fakeReader{head: 5000}
	s := New(reader, contract, 0, &collector{})

	if err := s.Incremental(context.Background()); err != nil {
		t.Fatalf("Incremental failed: %v", err)
	}
	q := reader.queries[0]
	if q.FromBlock.Uint64() != 5000-IncrementalSpan || q.ToBlock.Uint64() != 5000 {
		t.Errorf("window [%s, %s], want [%d, 5000]", q.FromBlock, q.ToBlock, 5000-IncrementalSpan)
	}
}

func TestIncremental_ClipsAtGenesis(t *testing.T) {
	reader := &fakeReader{head: 10}
	s := New(reader, contract, 0, &collector{})

	if err := s.Incremental(context.Background()); err != nil {
		t.Fatalf("Incremental failed: %v", err)
	}
	if from := reader.queries[0].FromBlock.Uint64(); from != 0 {
		t.Errorf("window start = %d, want 0", from)
	}
}

func TestScan_HandlerErrorAborts(t *testing.T) {
	reader := &fakeReader{head: 100, logs: []types.Log{{}, {}}}
	sink := &collector{err: errors.New("storage down")}
	s := New(reader, contract, 0, sink)

	if err := s.Incremental(context.Background()); err == nil {
		t.Fatal("expected handler error to propagate")
	}
	if len(sink.handled) != 1 {
		t.Errorf("expected abort after first log, handled %d", len(sink.handled))
	}
}
