package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetWallet godoc
// @Summary      Get a raw wallet snapshot
// @Description  Returns merged holdings and transaction history for an address
// @Tags         wallet
// @Produce      json
// @Param        address  path  string  true  "Solana wallet address"
// @Success      200  {object}  domain.WalletSnapshot
// @Failure      400  {object}  map[string]string
// @Router       /api/wallet/{address} [get]
func (h *Handler) GetWallet(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-wallet")
	defer span.End()

	address := strings.TrimSpace(c.Param("address"))
	span.SetAttributes(attribute.String("wallet.address", address))

	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet address is required"})
		return
	}

	snapshot, err := h.wallets.GetWalletSnapshot(ctx, address)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetWalletAnalysis godoc
// @Summary      Get a full wallet risk analysis
// @Description  Returns the wallet snapshot together with its risk analysis; narrative text falls back to deterministic summaries when the LLM is unavailable
// @Tags         wallet
// @Produce      json
// @Param        address  path  string  true  "Solana wallet address"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/wallet/{address}/analysis [get]
func (h *Handler) GetWalletAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-wallet-analysis")
	defer span.End()

	address := strings.TrimSpace(c.Param("address"))
	span.SetAttributes(attribute.String("wallet.address", address))

	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet address is required"})
		return
	}

	snapshot, err := h.wallets.GetWalletSnapshot(ctx, address)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis := h.analyzer.Analyze(ctx, *snapshot)

	c.JSON(http.StatusOK, gin.H{
		"wallet":   snapshot,
		"analysis": analysis,
	})
}
