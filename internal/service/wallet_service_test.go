package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"wallet-sentry/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type mockHoldingsProvider struct {
	tokens []domain.TokenHolding
	total  float64
	err    error
	delay  time.Duration
	calls  int
}

func (m *mockHoldingsProvider) FetchHoldings(ctx context.Context, walletAddress string) ([]domain.TokenHolding, float64, error) {
	m.calls++
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.tokens, m.total, m.err
}

type mockTransactionsProvider struct {
	txs   []domain.TransactionRecord
	err   error
	delay time.Duration
	calls int
}

func (m *mockTransactionsProvider) FetchTransactions(ctx context.Context, walletAddress string) ([]domain.TransactionRecord, error) {
	m.calls++
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.txs, m.err
}

type fakeRedis struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func TestGetWalletSnapshotMergesProviders(t *testing.T) {
	t.Parallel()

	holdings := &mockHoldingsProvider{
		tokens: []domain.TokenHolding{{Address: "mint1", Symbol: "SOL", ValueUSD: 300}},
		total:  300,
	}
	txs := &mockTransactionsProvider{
		txs: []domain.TransactionRecord{{TxHash: "h1", Action: domain.TxActionSend}},
	}

	svc := NewWalletService(testTracer, holdings, txs, nil, 0)
	snap, err := svc.GetWalletSnapshot(context.Background(), "wallet1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.WalletAddress != "wallet1" || snap.TotalValueUSD != 300 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Tokens) != 1 || len(snap.Transactions) != 1 {
		t.Fatalf("snapshot missing provider data: %+v", snap)
	}
}

func TestGetWalletSnapshotHoldingsFailureIsFatal(t *testing.T) {
	t.Parallel()

	holdings := &mockHoldingsProvider{err: errors.New("upstream 500")}
	txs := &mockTransactionsProvider{}

	svc := NewWalletService(testTracer, holdings, txs, nil, 0)
	if _, err := svc.GetWalletSnapshot(context.Background(), "wallet1"); err == nil {
		t.Fatal("expected error when holdings fetch fails")
	}
}

func TestGetWalletSnapshotTransactionsFailureIsFatal(t *testing.T) {
	t.Parallel()

	holdings := &mockHoldingsProvider{total: 100}
	txs := &mockTransactionsProvider{err: errors.New("upstream timeout")}

	svc := NewWalletService(testTracer, holdings, txs, nil, 0)
	if _, err := svc.GetWalletSnapshot(context.Background(), "wallet1"); err == nil {
		t.Fatal("expected error when transactions fetch fails")
	}
}

func TestGetWalletSnapshotCacheHitSkipsProviders(t *testing.T) {
	t.Parallel()

	cache := newFakeRedis()
	cached := domain.WalletSnapshot{WalletAddress: "wallet1", TotalValueUSD: 42}
	data, _ := json.Marshal(cached)
	_ = cache.Set(context.Background(), "wallet:wallet1", data, 0)

	holdings := &mockHoldingsProvider{}
	txs := &mockTransactionsProvider{}
	svc := NewWalletService(testTracer, holdings, txs, cache, 0)

	snap, err := svc.GetWalletSnapshot(context.Background(), "wallet1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalValueUSD != 42 {
		t.Fatalf("expected cached snapshot, got %+v", snap)
	}
	if holdings.calls != 0 || txs.calls != 0 {
		t.Fatal("cache hit must not touch providers")
	}
}

func TestGetWalletSnapshotCachesOnMiss(t *testing.T) {
	t.Parallel()

	cache := newFakeRedis()
	holdings := &mockHoldingsProvider{total: 10}
	txs := &mockTransactionsProvider{}
	svc := NewWalletService(testTracer, holdings, txs, cache, 30*time.Second)

	if _, err := svc.GetWalletSnapshot(context.Background(), "wallet1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.data["wallet:wallet1"]; !ok {
		t.Fatal("snapshot not cached")
	}
}

func TestGetWalletSnapshotCacheErrorsAreNonFatal(t *testing.T) {
	t.Parallel()

	cache := newFakeRedis()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")

	holdings := &mockHoldingsProvider{total: 10}
	txs := &mockTransactionsProvider{}
	svc := NewWalletService(testTracer, holdings, txs, cache, 0)

	snap, err := svc.GetWalletSnapshot(context.Background(), "wallet1")
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if snap.TotalValueUSD != 10 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestGetWalletSnapshotFetchesConcurrently(t *testing.T) {
	t.Parallel()

	holdings := &mockHoldingsProvider{delay: 50 * time.Millisecond, total: 1}
	txs := &mockTransactionsProvider{delay: 50 * time.Millisecond}
	svc := NewWalletService(testTracer, holdings, txs, nil, 0)

	start := time.Now()
	if _, err := svc.GetWalletSnapshot(context.Background(), "wallet1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 90*time.Millisecond {
		t.Fatalf("provider fetches appear sequential: %v", elapsed)
	}
}
