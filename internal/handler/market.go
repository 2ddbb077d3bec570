package handler

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMarket godoc
// @Summary      Get YES/NO pool prices
// @Tags         market
// @Produce      json
// @Success      200  {object}  service.MarketReport
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/market [get]
func (h *Handler) GetMarket(c *gin.Context) {
	if h.accounts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market")
	defer span.End()

	report, err := h.accounts.Market(ctx)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "failed to read market", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMarketUpdates godoc
// @Summary      Get recent MarketUpdate events
// @Tags         market
// @Produce      json
// @Param        from_block  query  string  false  "First block to scan (defaults to the last 1000 blocks)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/market/updates [get]
func (h *Handler) GetMarketUpdates(c *gin.Context) {
	if h.accounts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market-updates")
	defer span.End()

	var fromBlock *big.Int
	if raw := c.Query("from_block"); raw != "" {
		n, ok := new(big.Int).SetString(raw, 10)
		if !ok || n.Sign() < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from_block: " + raw})
			return
		}
		fromBlock = n
	}

	updates, err := h.accounts.MarketUpdates(ctx, fromBlock)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "failed to read market updates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates})
}
