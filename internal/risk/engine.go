package risk

import (
	"fmt"
	"math"
	"time"

	"wallet-sentry/internal/domain"
)

// Engine scores a wallet snapshot across a fixed set of risk dimensions.
// Evaluation is pure and total: it never errors, and empty wallets degrade to
// zero-point factors with explanatory text.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt pins the engine's clock, used by wallet-age scoring.
func NewEngineAt(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Evaluate runs every rule exactly once, in a fixed order, and aggregates the
// results. Each rule contributes one factor for its category; warnings surface
// the factors at or above domain.WarningPoints.
func (e *Engine) Evaluate(wallet domain.WalletSnapshot) domain.RiskAnalysis {
	factors := []domain.RiskFactor{
		e.scoreConcentration(wallet),
		e.scoreLiquidity(wallet),
		e.scoreMarketCap(wallet),
		e.scoreDiversification(wallet),
		e.scoreWalletAge(wallet),
	}

	sum := 0
	for _, f := range factors {
		sum += f.Points
	}
	total := domain.ClampScore(sum)

	warnings := []string{}
	for _, f := range factors {
		if f.Points >= domain.WarningPoints {
			warnings = append(warnings, f.Description)
		}
	}

	return domain.RiskAnalysis{
		TotalScore: total,
		RiskLevel:  domain.RiskLevelForScore(total),
		Factors:    factors,
		Warnings:   warnings,
	}
}

func (e *Engine) scoreConcentration(wallet domain.WalletSnapshot) domain.RiskFactor {
	if len(wallet.Tokens) == 0 || wallet.TotalValueUSD <= 0 {
		return domain.RiskFactor{Category: domain.RiskCategoryConcentration, Points: 0, Description: "No tokens to analyze"}
	}

	top := wallet.Tokens[0]
	for _, t := range wallet.Tokens[1:] {
		if t.ValueUSD > top.ValueUSD {
			top = t
		}
	}
	share := top.ValueUSD / wallet.TotalValueUSD * 100

	switch {
	case share > 80:
		return domain.RiskFactor{
			Category:    domain.RiskCategoryConcentration,
			Points:      25,
			Description: fmt.Sprintf("Critical concentration: %.1f%% in %s", share, top.Address),
		}
	case share > 50:
		return domain.RiskFactor{
			Category:    domain.RiskCategoryConcentration,
			Points:      15,
			Description: fmt.Sprintf("High concentration: %.1f%% in %s", share, top.Address),
		}
	case share > 30:
		return domain.RiskFactor{
			Category:    domain.RiskCategoryConcentration,
			Points:      8,
			Description: fmt.Sprintf("Moderate concentration: %.1f%% in %s", share, top.Address),
		}
	default:
		return domain.RiskFactor{Category: domain.RiskCategoryConcentration, Points: 0, Description: "Well diversified portfolio"}
	}
}

func (e *Engine) scoreLiquidity(wallet domain.WalletSnapshot) domain.RiskFactor {
	if len(wallet.Tokens) == 0 {
		return domain.RiskFactor{Category: domain.RiskCategoryLiquidity, Points: 0, Description: "No tokens to analyze"}
	}

	critical := 0
	low := 0
	for _, t := range wallet.Tokens {
		switch {
		case t.LiquidityUSD < 10_000:
			critical++
		case t.LiquidityUSD < 50_000:
			low++
		}
	}

	// Critical outranks low; only the worst tier fires.
	if critical > 0 {
		return domain.RiskFactor{
			Category:    domain.RiskCategoryLiquidity,
			Points:      20,
			Description: fmt.Sprintf("%d token(s) with critical liquidity (<$10K)", critical),
		}
	}
	if low > 0 {
		return domain.RiskFactor{
			Category:    domain.RiskCategoryLiquidity,
			Points:      10,
			Description: fmt.Sprintf("%d token(s) with low liquidity (<$50K)", low),
		}
	}
	return domain.RiskFactor{Category: domain.RiskCategoryLiquidity, Points: 0, Description: "All tokens have adequate liquidity"}
}

func (e *Engine) scoreMarketCap(wallet domain.WalletSnapshot) domain.RiskFactor {
	if len(wallet.Tokens) == 0 {
		return domain.RiskFactor{Category: domain.RiskCategoryMarketCap, Points: 0, Description: "No tokens to analyze"}
	}

	lowCap := 0
	for _, t := range wallet.Tokens {
		if t.MarketCapUSD < 100_000 {
			lowCap++
		}
	}
	if lowCap > 0 {
		return domain.RiskFactor{
			Category:    domain.RiskCategoryMarketCap,
			Points:      15,
			Description: fmt.Sprintf("Low market cap: %d tokens", lowCap),
		}
	}
	return domain.RiskFactor{Category: domain.RiskCategoryMarketCap, Points: 0, Description: "All tokens have good market cap"}
}

func (e *Engine) scoreDiversification(wallet domain.WalletSnapshot) domain.RiskFactor {
	if len(wallet.Tokens) == 0 {
		return domain.RiskFactor{Category: domain.RiskCategoryDiversification, Points: 0, Description: "No tokens to analyze"}
	}

	switch n := len(wallet.Tokens); {
	case n <= 1:
		return domain.RiskFactor{Category: domain.RiskCategoryDiversification, Points: 10, Description: "Wallet contains only one or less tokens"}
	case n <= 4:
		return domain.RiskFactor{Category: domain.RiskCategoryDiversification, Points: 5, Description: "Wallet contains more than 1 but less than 5 tokens"}
	default:
		return domain.RiskFactor{Category: domain.RiskCategoryDiversification, Points: 0, Description: "Wallet contains more than 4 tokens"}
	}
}

func (e *Engine) scoreWalletAge(wallet domain.WalletSnapshot) domain.RiskFactor {
	if len(wallet.Transactions) == 0 {
		return domain.RiskFactor{Category: domain.RiskCategoryWalletAge, Points: 5, Description: "No transaction history"}
	}

	first := wallet.Transactions[0].BlockTime
	for _, tx := range wallet.Transactions[1:] {
		if tx.BlockTime.Before(first) {
			first = tx.BlockTime
		}
	}

	ageDays := e.now().UTC().Sub(first).Hours() / 24
	days := int(math.Round(ageDays))

	switch {
	case ageDays < 7:
		return domain.RiskFactor{
			Category:    domain.RiskCategoryWalletAge,
			Points:      5,
			Description: fmt.Sprintf("New wallet: %d days old", days),
		}
	case ageDays < 30:
		return domain.RiskFactor{
			Category:    domain.RiskCategoryWalletAge,
			Points:      3,
			Description: fmt.Sprintf("Young wallet: %d days old", days),
		}
	default:
		return domain.RiskFactor{
			Category:    domain.RiskCategoryWalletAge,
			Points:      0,
			Description: fmt.Sprintf("Established wallet: %d days old", days),
		}
	}
}
