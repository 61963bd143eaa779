package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wallet-sentry/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const birdeyeBaseURL = "https://public-api.birdeye.so"

const birdeyeTxPageSize = 100

// BirdeyeProvider fetches wallet transaction history from the Birdeye public
// API. The free tier is tightly rate limited, so requests go through a token
// bucket shared across calls.
type BirdeyeProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewBirdeyeProvider(tracer trace.Tracer, baseURL, apiKey string) *BirdeyeProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = birdeyeBaseURL
	}
	return &BirdeyeProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewRateLimiter(10, time.Second),
	}
}

type birdeyeBalanceChange struct {
	Amount   float64 `json:"amount"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Decimals int     `json:"decimals"`
	Address  string  `json:"address"`
	LogoURI  string  `json:"logoURI"`
}

type birdeyeTransaction struct {
	TxHash        string                 `json:"txHash"`
	BlockNumber   int64                  `json:"blockNumber"`
	BlockTime     string                 `json:"blockTime"`
	Status        bool                   `json:"status"`
	From          string                 `json:"from"`
	To            string                 `json:"to"`
	Fee           int64                  `json:"fee"`
	MainAction    string                 `json:"mainAction"`
	BalanceChange []birdeyeBalanceChange `json:"balanceChange"`
}

type birdeyeTxListResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Solana []birdeyeTransaction `json:"solana"`
	} `json:"data"`
}

// FetchTransactions returns the wallet's recent transaction history, newest
// first as the API reports it, normalized into domain records.
func (p *BirdeyeProvider) FetchTransactions(ctx context.Context, walletAddress string) ([]domain.TransactionRecord, error) {
	ctx, span := p.tracer.Start(ctx, "birdeye.fetch-transactions")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.address", walletAddress))

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/v1/wallet/tx_list?wallet=%s&limit=%d", p.baseURL, walletAddress, birdeyeTxPageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-chain", "solana")
	if p.apiKey != "" {
		req.Header.Set("X-API-KEY", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("birdeye request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("birdeye API error %d: %s", resp.StatusCode, string(body))
	}

	var payload birdeyeTxListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode birdeye payload: %w", err)
	}

	records := make([]domain.TransactionRecord, 0, len(payload.Data.Solana))
	for _, tx := range payload.Data.Solana {
		blockTime, err := parseBlockTime(tx.BlockTime)
		if err != nil {
			return nil, fmt.Errorf("parse block time for %s: %w", tx.TxHash, err)
		}
		records = append(records, domain.TransactionRecord{
			TxHash:         tx.TxHash,
			FromAddress:    tx.From,
			ToAddress:      tx.To,
			BlockTime:      blockTime,
			Success:        tx.Status,
			FeeLamports:    tx.Fee,
			Action:         domain.ParseTxAction(tx.MainAction),
			BalanceChanges: normalizeBalanceChanges(tx.BalanceChange),
		})
	}

	span.SetAttributes(attribute.Int("wallet.tx_count", len(records)))
	return records, nil
}

func normalizeBalanceChanges(changes []birdeyeBalanceChange) []domain.BalanceChange {
	if len(changes) == 0 {
		return nil
	}
	out := make([]domain.BalanceChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, domain.BalanceChange{
			Amount:   c.Amount,
			Symbol:   c.Symbol,
			Name:     c.Name,
			Decimals: c.Decimals,
			Address:  c.Address,
			LogoURI:  c.LogoURI,
		})
	}
	return out
}

// Birdeye reports block times as RFC3339 strings, occasionally without the
// zone suffix. Both forms are treated as UTC.
func parseBlockTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
