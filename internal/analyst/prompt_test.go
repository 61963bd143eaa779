package analyst

import (
	"strings"
	"testing"
	"time"

	"wallet-sentry/internal/domain"
)

func promptWallet() domain.WalletSnapshot {
	return domain.WalletSnapshot{
		WalletAddress: "wallet1",
		TotalValueUSD: 1000,
		Tokens: []domain.TokenHolding{
			{Address: "mint2", Symbol: "SOL", ValueUSD: 100},
			{Address: "mint1", Symbol: "BONK", ValueUSD: 850},
			{Address: "mint3", Symbol: "USDC", ValueUSD: 40},
			{Address: "mint4", Symbol: "JUP", ValueUSD: 10},
		},
	}
}

func TestBuildPromptEmbedsWalletAndRisk(t *testing.T) {
	analysis := domain.RiskAnalysis{
		TotalScore: 60,
		RiskLevel:  "Moderate",
		Warnings:   []string{"High concentration: 85.0% in mint1", "1 token(s) with critical liquidity (<$10K)"},
	}

	prompt := BuildPrompt(promptWallet(), analysis)

	for _, want := range []string{
		"Address: wallet1",
		"Total Value: $1000.00",
		"Token Count: 4",
		"BONK: $850.00 (85.0%)",
		"SOL: $100.00 (10.0%)",
		"USDC: $40.00 (4.0%)",
		"Risk Score: 60/100",
		"Risk Level: Moderate",
		"High concentration: 85.0% in mint1; 1 token(s) with critical liquidity (<$10K)",
		"ONLY this JSON",
		`{"summary": "...", "recommendations": ["...", "..."]}`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}

	// Only the top three holdings make the prompt.
	if strings.Contains(prompt, "JUP") {
		t.Error("prompt should not include the fourth-largest holding")
	}
}

func TestBuildPromptZeroTotalValue(t *testing.T) {
	wallet := domain.WalletSnapshot{
		WalletAddress: "wallet1",
		TotalValueUSD: 0,
		Tokens:        []domain.TokenHolding{{Address: "mint1", Symbol: "BONK", ValueUSD: 0}},
	}
	prompt := BuildPrompt(wallet, domain.RiskAnalysis{RiskLevel: "Very Safe"})
	if !strings.Contains(prompt, "BONK: $0.00 (0.0%)") {
		t.Fatalf("expected zero-share guard, prompt:\n%s", prompt)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	analysis := domain.RiskAnalysis{TotalScore: 10, RiskLevel: "Very Safe"}
	a := BuildPrompt(promptWallet(), analysis)
	b := BuildPrompt(promptWallet(), analysis)
	if a != b {
		t.Fatal("prompt construction not deterministic")
	}
}

func TestBuildTransactionStatsPrompt(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	wallet := promptWallet()
	wallet.Transactions = []domain.TransactionRecord{
		{
			TxHash:      "h1",
			BlockTime:   base,
			Action:      domain.TxActionSend,
			FeeLamports: 5_000,
			BalanceChanges: []domain.BalanceChange{
				{Amount: -1.5, Symbol: "SOL"},
			},
		},
		{TxHash: "h2", BlockTime: base.Add(24 * time.Hour), Action: domain.TxActionReceived, FeeLamports: 5_000},
		{TxHash: "h3", BlockTime: base.Add(48 * time.Hour), Action: domain.TxActionSwap, FeeLamports: 10_000},
		{TxHash: "h4", BlockTime: base.Add(72 * time.Hour), Action: domain.TxActionUnknown, FeeLamports: 5_000},
	}

	prompt := BuildTransactionStatsPrompt(wallet)

	for _, want := range []string{
		"Transactions: 4 (sends=1, receives=1, swaps/other=2)",
		"Total Fees: 0.000025 SOL",
		"First Transaction: 2026-01-10",
		"Last Transaction: 2026-01-13",
		"2026-01-10 send -1.5000 SOL",
		"riskScore",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestBuildTransactionStatsPromptNoHistory(t *testing.T) {
	prompt := BuildTransactionStatsPrompt(promptWallet())
	if !strings.Contains(prompt, "Transactions: 0 (sends=0, receives=0, swaps/other=0)") {
		t.Fatalf("unexpected prompt:\n%s", prompt)
	}
	if strings.Contains(prompt, "First Transaction") {
		t.Fatal("empty history should omit first/last dates")
	}
}
