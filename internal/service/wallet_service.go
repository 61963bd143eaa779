package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"wallet-sentry/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultSnapshotCacheTTL = 60 * time.Second

// HoldingsProvider supplies token balances and the portfolio total.
type HoldingsProvider interface {
	FetchHoldings(ctx context.Context, walletAddress string) ([]domain.TokenHolding, float64, error)
}

// TransactionsProvider supplies wallet transaction history.
type TransactionsProvider interface {
	FetchTransactions(ctx context.Context, walletAddress string) ([]domain.TransactionRecord, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// WalletService assembles normalized wallet snapshots from the two upstream
// data providers. Either provider failing fails the whole request: without
// full wallet data there is nothing to score.
type WalletService struct {
	tracer       trace.Tracer
	holdings     HoldingsProvider
	transactions TransactionsProvider
	redis        RedisClient
	cacheTTL     time.Duration
}

func NewWalletService(
	tracer trace.Tracer,
	holdings HoldingsProvider,
	transactions TransactionsProvider,
	redisClient RedisClient,
	cacheTTL time.Duration,
) *WalletService {
	if cacheTTL <= 0 {
		cacheTTL = defaultSnapshotCacheTTL
	}
	return &WalletService{
		tracer:       tracer,
		holdings:     holdings,
		transactions: transactions,
		redis:        redisClient,
		cacheTTL:     cacheTTL,
	}
}

// GetWalletSnapshot returns the merged snapshot for an address, serving from
// the short-lived cache when possible. Balances change continuously, so the
// TTL is deliberately small.
func (s *WalletService) GetWalletSnapshot(ctx context.Context, walletAddress string) (*domain.WalletSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "wallet-service.get-snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.address", walletAddress))

	if s.redis != nil {
		cached, err := s.getSnapshotCache(ctx, walletAddress)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cached, nil
		}
	}

	snapshot, err := s.fetchSnapshot(ctx, walletAddress)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.redis != nil {
		if err := s.setSnapshotCache(ctx, snapshot); err != nil {
			log.Printf("redis cache write error for %s: %v", walletAddress, err)
		}
	}

	return snapshot, nil
}

// fetchSnapshot issues both provider calls concurrently and joins them; the
// scoring stage needs both halves.
func (s *WalletService) fetchSnapshot(ctx context.Context, walletAddress string) (*domain.WalletSnapshot, error) {
	var (
		wg      sync.WaitGroup
		tokens  []domain.TokenHolding
		total   float64
		txs     []domain.TransactionRecord
		tokErr  error
		txsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		tokens, total, tokErr = s.holdings.FetchHoldings(ctx, walletAddress)
	}()
	go func() {
		defer wg.Done()
		txs, txsErr = s.transactions.FetchTransactions(ctx, walletAddress)
	}()
	wg.Wait()

	if tokErr != nil {
		return nil, fmt.Errorf("fetch holdings for %s: %w", walletAddress, tokErr)
	}
	if txsErr != nil {
		return nil, fmt.Errorf("fetch transactions for %s: %w", walletAddress, txsErr)
	}

	return &domain.WalletSnapshot{
		WalletAddress: walletAddress,
		TotalValueUSD: total,
		Tokens:        tokens,
		Transactions:  txs,
	}, nil
}

func snapshotCacheKey(walletAddress string) string {
	return "wallet:" + walletAddress
}

func (s *WalletService) getSnapshotCache(ctx context.Context, walletAddress string) (*domain.WalletSnapshot, error) {
	val, err := s.redis.Get(ctx, snapshotCacheKey(walletAddress)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot domain.WalletSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *WalletService) setSnapshotCache(ctx context.Context, snapshot *domain.WalletSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, snapshotCacheKey(snapshot.WalletAddress), data, s.cacheTTL).Err()
}
