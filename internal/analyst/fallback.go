package analyst

import (
	"fmt"

	"wallet-sentry/internal/domain"
)

// Advisory sentences for material risk factors. Categories without an entry
// are skipped when synthesizing fallback recommendations.
var fallbackAdvice = map[domain.RiskCategory]string{
	domain.RiskCategoryConcentration:   "Consider reducing your largest position to below 30%",
	domain.RiskCategoryLiquidity:       "Avoid tokens with liquidity below $50K - high rug risk",
	domain.RiskCategoryMarketCap:       "Be cautious with micro-cap tokens (<$100K market cap)",
	domain.RiskCategoryDiversification: "Diversify your portfolio across 5+ different tokens",
}

// FallbackSummary produces the deterministic summary used when the LLM path
// fails or returns unusable output.
func FallbackSummary(wallet domain.WalletSnapshot, analysis domain.RiskAnalysis) string {
	topSymbol := "N/A"
	topPercent := "0"
	if top, ok := topHolding(wallet); ok {
		topSymbol = holdingLabel(top)
		if wallet.TotalValueUSD > 0 {
			topPercent = fmt.Sprintf("%.1f", top.ValueUSD/wallet.TotalValueUSD*100)
		}
	}

	return fmt.Sprintf(
		"Portfolio worth $%.2f across %d tokens. Risk level: %s (%d/100). Largest holding: %s at %s%%.",
		wallet.TotalValueUSD, len(wallet.Tokens), analysis.RiskLevel, analysis.TotalScore, topSymbol, topPercent,
	)
}

// FallbackRecommendations maps every material risk factor to its advisory
// sentence, capped at three entries.
func FallbackRecommendations(analysis domain.RiskAnalysis) []string {
	recommendations := []string{}
	for _, factor := range analysis.Factors {
		if factor.Points < domain.WarningPoints {
			continue
		}
		advice, ok := fallbackAdvice[factor.Category]
		if !ok {
			continue
		}
		recommendations = append(recommendations, advice)
		if len(recommendations) == maxListEntries {
			break
		}
	}
	return recommendations
}

func topHolding(wallet domain.WalletSnapshot) (domain.TokenHolding, bool) {
	if len(wallet.Tokens) == 0 {
		return domain.TokenHolding{}, false
	}
	top := wallet.Tokens[0]
	for _, t := range wallet.Tokens[1:] {
		if t.ValueUSD > top.ValueUSD {
			top = t
		}
	}
	return top, true
}

func holdingLabel(t domain.TokenHolding) string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address
}
