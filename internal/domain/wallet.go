package domain

import (
	"strings"
	"time"
)

// TxAction classifies what a transaction did from the wallet's perspective.
// Upstream providers report this as free text, so anything unrecognized maps
// to TxActionUnknown rather than leaking provider strings into the core.
type TxAction string

const (
	TxActionSend     TxAction = "send"
	TxActionReceived TxAction = "received"
	TxActionSwap     TxAction = "swap"
	TxActionUnknown  TxAction = "unknown"
)

func ParseTxAction(raw string) TxAction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "send", "sent":
		return TxActionSend
	case "received", "receive":
		return TxActionReceived
	case "swap":
		return TxActionSwap
	default:
		return TxActionUnknown
	}
}

// LamportsPerSOL converts chain-native fees to display units.
const LamportsPerSOL = 1_000_000_000

type TokenHolding struct {
	Address      string  `json:"address"`
	Name         string  `json:"name,omitempty"`
	Symbol       string  `json:"symbol,omitempty"`
	Balance      float64 `json:"balance"`
	ValueUSD     float64 `json:"valueUsd"`
	PriceUSD     float64 `json:"priceUsd"`
	MarketCapUSD float64 `json:"marketCapUsd"`
	LiquidityUSD float64 `json:"liquidityUsd"`
}

type BalanceChange struct {
	Amount   float64 `json:"amount"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name,omitempty"`
	Decimals int     `json:"decimals"`
	Address  string  `json:"address,omitempty"`
	LogoURI  string  `json:"logoUri,omitempty"`
}

type TransactionRecord struct {
	TxHash         string          `json:"txHash"`
	FromAddress    string          `json:"fromAddress"`
	ToAddress      string          `json:"toAddress"`
	BlockTime      time.Time       `json:"blockTime"`
	Success        bool            `json:"success"`
	FeeLamports    int64           `json:"feeLamports"`
	Action         TxAction        `json:"action"`
	BalanceChanges []BalanceChange `json:"balanceChanges,omitempty"`
}

// WalletSnapshot is the normalized, provider-agnostic view of an address at a
// point in time. It is assembled once per request and never mutated afterwards.
type WalletSnapshot struct {
	WalletAddress string              `json:"walletAddress"`
	TotalValueUSD float64             `json:"totalValueUsd"`
	Tokens        []TokenHolding      `json:"tokens"`
	Transactions  []TransactionRecord `json:"transactions"`
}
