package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"wallet-sentry/internal/analyst"
	"wallet-sentry/internal/domain"
	"wallet-sentry/internal/service"

	tele "gopkg.in/telebot.v3"
)

// StartTelegramBot wires an optional chat surface over the same pipeline the
// HTTP API uses. A missing token disables the bot entirely.
func StartTelegramBot(token string, wallets *service.WalletService, analyzer *analyst.Analyzer) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/wallet", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /wallet <solana-address>")
		}
		address := strings.TrimSpace(args[0])

		snapshot, err := wallets.GetWalletSnapshot(context.Background(), address)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching wallet %s: %v", address, err))
		}
		result := analyzer.Analyze(context.Background(), *snapshot)
		return c.Send(FormatAnalysis(address, result))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

// FormatAnalysis renders an analysis result as a plain-text chat message.
func FormatAnalysis(address string, result domain.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Wallet %s\n", address)
	fmt.Fprintf(&sb, "Risk: %d/100 (%s)\n\n", result.RiskScore, domain.RiskLevelForScore(result.RiskScore))
	sb.WriteString(result.Summary)

	if len(result.Warnings) > 0 {
		sb.WriteString("\n\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	if len(result.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range result.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", r)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
