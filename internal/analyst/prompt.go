package analyst

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"wallet-sentry/internal/domain"
)

// PromptMode selects what context the model reasons over.
type PromptMode string

const (
	// PromptModeRisk feeds the model the already-computed risk analysis and
	// asks only for narrative text. This is the default: scoring stays
	// deterministic and auditable.
	PromptModeRisk PromptMode = "risk"
	// PromptModeActivity feeds the model raw wallet and transaction
	// statistics instead. Any score the model proposes is clamped and then
	// ignored in favor of the engine's.
	PromptModeActivity PromptMode = "activity"
)

const systemInstruction = "You are a blockchain analyst. Respond with ONLY valid JSON."

const topHoldingsInPrompt = 3
const recentTxInPrompt = 5

// BuildPrompt renders the pre-computed-risk prompt: wallet composition plus
// the engine's verdict, with a strict JSON-only response contract.
func BuildPrompt(wallet domain.WalletSnapshot, analysis domain.RiskAnalysis) string {
	var sb strings.Builder

	sb.WriteString("Analyze this Solana wallet and provide summary + recommendations.\n")
	sb.WriteString("WALLET DATA:\n")
	fmt.Fprintf(&sb, "- Address: %s\n", wallet.WalletAddress)
	fmt.Fprintf(&sb, "- Total Value: $%.2f\n", wallet.TotalValueUSD)
	fmt.Fprintf(&sb, "- Token Count: %d\n", len(wallet.Tokens))
	fmt.Fprintf(&sb, "- Top Holdings: %s\n", strings.Join(formatTopHoldings(wallet), ", "))
	sb.WriteString("\nRISK ANALYSIS (already calculated):\n")
	fmt.Fprintf(&sb, "- Risk Score: %d/100\n", analysis.TotalScore)
	fmt.Fprintf(&sb, "- Risk Level: %s\n", analysis.RiskLevel)
	fmt.Fprintf(&sb, "- Warnings: %s\n", strings.Join(analysis.Warnings, "; "))
	sb.WriteString("\nGenerate:\n")
	sb.WriteString("1. Summary: 2-3 sentences describing portfolio composition and risk profile. Use specific numbers.\n")
	sb.WriteString("2. Recommendations: 2-3 actionable tips based on the warnings. Be specific.\n")
	sb.WriteString("\nRespond with ONLY this JSON, no markdown fences, no prose outside it:\n")
	sb.WriteString(`{"summary": "...", "recommendations": ["...", "..."]}`)

	return sb.String()
}

// BuildTransactionStatsPrompt renders the activity-statistics prompt: raw
// wallet composition and descriptive transaction aggregates for the model to
// reason over, again with a strict JSON-only response contract.
func BuildTransactionStatsPrompt(wallet domain.WalletSnapshot) string {
	stats := aggregateActivity(wallet)

	var sb strings.Builder

	sb.WriteString("Analyze this Solana wallet from its holdings and activity, and provide a risk assessment.\n")
	sb.WriteString("WALLET DATA:\n")
	fmt.Fprintf(&sb, "- Address: %s\n", wallet.WalletAddress)
	fmt.Fprintf(&sb, "- Total Value: $%.2f\n", wallet.TotalValueUSD)
	fmt.Fprintf(&sb, "- Token Count: %d\n", len(wallet.Tokens))
	fmt.Fprintf(&sb, "- Top Holdings: %s\n", strings.Join(formatTopHoldings(wallet), ", "))
	sb.WriteString("\nACTIVITY:\n")
	fmt.Fprintf(&sb, "- Transactions: %d (sends=%d, receives=%d, swaps/other=%d)\n",
		stats.total, stats.sends, stats.receives, stats.swapsOrOther)
	fmt.Fprintf(&sb, "- Total Fees: %.6f SOL\n", stats.totalFeesSOL)
	if !stats.firstTx.IsZero() {
		fmt.Fprintf(&sb, "- First Transaction: %s\n", stats.firstTx.Format("2006-01-02"))
		fmt.Fprintf(&sb, "- Last Transaction: %s\n", stats.lastTx.Format("2006-01-02"))
	}
	if len(stats.recent) > 0 {
		sb.WriteString("- Recent Transactions:\n")
		for _, line := range stats.recent {
			fmt.Fprintf(&sb, "    %s\n", line)
		}
	}
	sb.WriteString("\nGenerate:\n")
	sb.WriteString("1. Summary: 2-3 sentences describing portfolio composition and risk profile. Use specific numbers.\n")
	sb.WriteString("2. RiskScore: integer 0-100, higher means riskier.\n")
	sb.WriteString("3. Recommendations: 2-3 actionable tips. Be specific.\n")
	sb.WriteString("\nRespond with ONLY this JSON, no markdown fences, no prose outside it:\n")
	sb.WriteString(`{"summary": "...", "riskScore": 0, "recommendations": ["...", "..."]}`)

	return sb.String()
}

func formatTopHoldings(wallet domain.WalletSnapshot) []string {
	tokens := append([]domain.TokenHolding(nil), wallet.Tokens...)
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].ValueUSD > tokens[j].ValueUSD })
	if len(tokens) > topHoldingsInPrompt {
		tokens = tokens[:topHoldingsInPrompt]
	}

	lines := make([]string, 0, len(tokens))
	for _, t := range tokens {
		share := 0.0
		if wallet.TotalValueUSD > 0 {
			share = t.ValueUSD / wallet.TotalValueUSD * 100
		}
		lines = append(lines, fmt.Sprintf("%s: $%.2f (%.1f%%)", holdingLabel(t), t.ValueUSD, share))
	}
	return lines
}

type activityStats struct {
	total        int
	sends        int
	receives     int
	swapsOrOther int
	totalFeesSOL float64
	firstTx      time.Time
	lastTx       time.Time
	recent       []string
}

func aggregateActivity(wallet domain.WalletSnapshot) activityStats {
	stats := activityStats{total: len(wallet.Transactions)}

	var totalLamports int64
	for _, tx := range wallet.Transactions {
		switch tx.Action {
		case domain.TxActionSend:
			stats.sends++
		case domain.TxActionReceived:
			stats.receives++
		default:
			stats.swapsOrOther++
		}
		totalLamports += tx.FeeLamports

		if stats.firstTx.IsZero() || tx.BlockTime.Before(stats.firstTx) {
			stats.firstTx = tx.BlockTime
		}
		if tx.BlockTime.After(stats.lastTx) {
			stats.lastTx = tx.BlockTime
		}
	}
	stats.totalFeesSOL = float64(totalLamports) / domain.LamportsPerSOL

	recent := append([]domain.TransactionRecord(nil), wallet.Transactions...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].BlockTime.After(recent[j].BlockTime) })
	if len(recent) > recentTxInPrompt {
		recent = recent[:recentTxInPrompt]
	}
	for _, tx := range recent {
		stats.recent = append(stats.recent, formatRecentTx(tx))
	}

	return stats
}

func formatRecentTx(tx domain.TransactionRecord) string {
	line := fmt.Sprintf("%s %s", tx.BlockTime.Format("2006-01-02"), tx.Action)
	for i, change := range tx.BalanceChanges {
		if i == 2 {
			break
		}
		line += fmt.Sprintf(" %+.4f %s", change.Amount, change.Symbol)
	}
	return line
}
