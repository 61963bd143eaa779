package handler

import (
	"context"

	"wallet-sentry/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// WalletFetcher assembles normalized wallet snapshots.
type WalletFetcher interface {
	GetWalletSnapshot(ctx context.Context, walletAddress string) (*domain.WalletSnapshot, error)
}

// WalletAnalyzer produces the risk analysis for a snapshot. It never fails;
// LLM problems degrade to deterministic text inside the analyzer.
type WalletAnalyzer interface {
	Analyze(ctx context.Context, wallet domain.WalletSnapshot) domain.AnalysisResult
}

type Handler struct {
	tracer   trace.Tracer
	wallets  WalletFetcher
	analyzer WalletAnalyzer
}

func New(tracer trace.Tracer, wallets WalletFetcher, analyzer WalletAnalyzer) *Handler {
	return &Handler{
		tracer:   tracer,
		wallets:  wallets,
		analyzer: analyzer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/wallet/:address", h.GetWallet)
	r.GET("/api/wallet/:address/analysis", h.GetWalletAnalysis)
}
