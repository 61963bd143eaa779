package analyst

import (
	"strings"
	"testing"

	"wallet-sentry/internal/domain"
)

func TestFallbackSummary(t *testing.T) {
	wallet := domain.WalletSnapshot{
		WalletAddress: "wallet1",
		TotalValueUSD: 1000,
		Tokens: []domain.TokenHolding{
			{Address: "mint1", Symbol: "BONK", ValueUSD: 900},
			{Address: "mint2", Symbol: "SOL", ValueUSD: 100},
		},
	}
	analysis := domain.RiskAnalysis{TotalScore: 75, RiskLevel: "High Risk"}

	got := FallbackSummary(wallet, analysis)
	want := "Portfolio worth $1000.00 across 2 tokens. Risk level: High Risk (75/100). Largest holding: BONK at 90.0%."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFallbackSummaryEmptyWallet(t *testing.T) {
	got := FallbackSummary(domain.WalletSnapshot{}, domain.RiskAnalysis{TotalScore: 5, RiskLevel: "Very Safe"})
	if !strings.Contains(got, "Largest holding: N/A at 0%") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "Portfolio worth $0.00 across 0 tokens") {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackSummaryZeroTotalValue(t *testing.T) {
	wallet := domain.WalletSnapshot{
		Tokens: []domain.TokenHolding{{Address: "mint1", ValueUSD: 0}},
	}
	got := FallbackSummary(wallet, domain.RiskAnalysis{RiskLevel: "Very Safe"})
	if !strings.Contains(got, "at 0%.") {
		t.Fatalf("expected zero percent guard, got %q", got)
	}
}

func TestFallbackRecommendationsMapping(t *testing.T) {
	analysis := domain.RiskAnalysis{
		Factors: []domain.RiskFactor{
			{Category: domain.RiskCategoryConcentration, Points: 25},
			{Category: domain.RiskCategoryLiquidity, Points: 20},
			{Category: domain.RiskCategoryMarketCap, Points: 8},
			{Category: domain.RiskCategoryDiversification, Points: 10},
			{Category: domain.RiskCategoryWalletAge, Points: 5},
		},
	}

	got := FallbackRecommendations(analysis)
	want := []string{
		"Consider reducing your largest position to below 30%",
		"Avoid tokens with liquidity below $50K - high rug risk",
		"Diversify your portfolio across 5+ different tokens",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d recommendations: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("recommendation %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFallbackRecommendationsCappedAtThree(t *testing.T) {
	analysis := domain.RiskAnalysis{
		Factors: []domain.RiskFactor{
			{Category: domain.RiskCategoryConcentration, Points: 25},
			{Category: domain.RiskCategoryLiquidity, Points: 20},
			{Category: domain.RiskCategoryMarketCap, Points: 15},
			{Category: domain.RiskCategoryDiversification, Points: 10},
		},
	}
	if got := FallbackRecommendations(analysis); len(got) != 3 {
		t.Fatalf("expected 3 recommendations, got %v", got)
	}
}

func TestFallbackRecommendationsSkipsUnmappedCategories(t *testing.T) {
	analysis := domain.RiskAnalysis{
		Factors: []domain.RiskFactor{
			{Category: domain.RiskCategoryWalletAge, Points: 15},
		},
	}
	if got := FallbackRecommendations(analysis); len(got) != 0 {
		t.Fatalf("expected no recommendations, got %v", got)
	}
}

func TestFallbackRecommendationsEmptyOnQuietWallet(t *testing.T) {
	analysis := domain.RiskAnalysis{
		Factors: []domain.RiskFactor{
			{Category: domain.RiskCategoryConcentration, Points: 0},
			{Category: domain.RiskCategoryLiquidity, Points: 0},
		},
	}
	got := FallbackRecommendations(analysis)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no recommendations, got %v", got)
	}
}
