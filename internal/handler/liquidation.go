package handler

import (
	"net/http"

	"prediction-terminal/internal/contract"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type liquidationRequest struct {
	Address string `json:"address" binding:"required"`
	Symbol  string `json:"symbol" binding:"required"`
}

// Liquidate godoc
// @Summary      Liquidate one position
// @Description  Submits liquidatePosition(user, symbol, price18) at a freshly resolved price. Refused with 503 when no price is available.
// @Tags         liquidations
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Param        request  body  handler.liquidationRequest  true  "Target position"
// @Success      200  {object}  service.Liquidation
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/liquidations [post]
func (h *Handler) Liquidate(c *gin.Context) {
	if h.keeper == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "liquidation keeper unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.liquidate")
	defer span.End()

	var req liquidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and symbol are required"})
		return
	}
	user, err := contract.ParseAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("user", user.Hex()), attribute.String("symbol", req.Symbol))

	liq, err := h.keeper.Liquidate(ctx, user, req.Symbol)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "liquidation not submitted", err)
		return
	}
	c.JSON(http.StatusOK, liq)
}

// Sweep godoc
// @Summary      Run one keeper sweep now
// @Description  Checks every watched address and liquidates liquidatable positions.
// @Tags         liquidations
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/liquidations/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	if h.keeper == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "liquidation keeper unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.sweep")
	defer span.End()

	done, err := h.keeper.Sweep(ctx)
	resp := gin.H{"status": "ok", "liquidations": done}
	if err != nil {
		span.RecordError(err)
		if len(done) == 0 {
			h.fail(c, "sweep failed", err)
			return
		}
		resp["status"] = "partial"
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
