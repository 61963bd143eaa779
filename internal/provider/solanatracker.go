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

const solanaTrackerBaseURL = "https://data.solanatracker.io"

// SolanaTrackerProvider fetches token holdings and portfolio totals from the
// SolanaTracker data API.
type SolanaTrackerProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewSolanaTrackerProvider(tracer trace.Tracer, baseURL, apiKey string) *SolanaTrackerProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = solanaTrackerBaseURL
	}
	return &SolanaTrackerProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

type solanaTrackerQuote struct {
	Quote float64 `json:"quote"`
	USD   float64 `json:"usd"`
}

type solanaTrackerToken struct {
	Address   string             `json:"address"`
	Name      string             `json:"name"`
	Symbol    string             `json:"symbol"`
	Balance   float64            `json:"balance"`
	Value     float64            `json:"value"`
	Price     solanaTrackerQuote `json:"price"`
	MarketCap solanaTrackerQuote `json:"marketCap"`
	Liquidity solanaTrackerQuote `json:"liquidity"`
}

type solanaTrackerWallet struct {
	Tokens   []solanaTrackerToken `json:"tokens"`
	Total    float64              `json:"total"`
	TotalSol float64              `json:"totalSol"`
}

// FetchHoldings returns the wallet's token holdings and its total USD value.
// Tokens the API has no quote data for come back with zero-valued fields.
func (p *SolanaTrackerProvider) FetchHoldings(ctx context.Context, walletAddress string) ([]domain.TokenHolding, float64, error) {
	ctx, span := p.tracer.Start(ctx, "solanatracker.fetch-holdings")
	defer span.End()
	span.SetAttributes(attribute.String("wallet.address", walletAddress))

	url := fmt.Sprintf("%s/wallet/%s/basic", p.baseURL, walletAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("solanatracker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("solanatracker API error %d: %s", resp.StatusCode, string(body))
	}

	var payload solanaTrackerWallet
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, 0, fmt.Errorf("decode solanatracker payload: %w", err)
	}

	holdings := make([]domain.TokenHolding, 0, len(payload.Tokens))
	for _, t := range payload.Tokens {
		holdings = append(holdings, domain.TokenHolding{
			Address:      t.Address,
			Name:         t.Name,
			Symbol:       t.Symbol,
			Balance:      t.Balance,
			ValueUSD:     t.Value,
			PriceUSD:     t.Price.USD,
			MarketCapUSD: t.MarketCap.USD,
			LiquidityUSD: t.Liquidity.USD,
		})
	}

	span.SetAttributes(attribute.Int("wallet.token_count", len(holdings)))
	return holdings, payload.Total, nil
}
