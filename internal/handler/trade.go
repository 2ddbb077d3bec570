package handler

import (
	"math/big"
	"net/http"

	"prediction-terminal/internal/fixedpoint"
	"prediction-terminal/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type openPositionRequest struct {
	Symbol    string `json:"symbol" binding:"required"`
	USDAmount string `json:"usd_amount" binding:"required"`
}

type closePositionRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

type outcomeOrderRequest struct {
	Side   string `json:"side" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// amountField parses a decimal amount into its 10^18-scaled form,
// answering 400 unless it is positive.
func amountField(c *gin.Context, raw string) (*big.Int, bool) {
	amount, err := fixedpoint.Parse(raw)
	if err != nil || amount.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive decimal"})
		return nil, false
	}
	return amount, true
}

// OpenPosition godoc
// @Summary      Open a leveraged long
// @Description  Submits openLong(symbol, usd18, price18) with the keeper key at the current quote. Refused with 503 when no price is available.
// @Tags         trading
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Param        request  body  handler.openPositionRequest  true  "Symbol and USD size"
// @Success      200  {object}  service.Trade
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/positions/open [post]
func (h *Handler) OpenPosition(c *gin.Context) {
	if h.trader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trading unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.open-position")
	defer span.End()

	var req openPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol and usd_amount are required"})
		return
	}
	usd18, ok := amountField(c, req.USDAmount)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol))

	trade, err := h.trader.OpenLong(ctx, req.Symbol, usd18)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "position not opened", err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

// ClosePosition godoc
// @Summary      Close a leveraged long
// @Description  Submits closeLong(symbol, price18) with the keeper key at the current quote. Refused with 503 when no price is available.
// @Tags         trading
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Param        request  body  handler.closePositionRequest  true  "Symbol"
// @Success      200  {object}  service.Trade
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/positions/close [post]
func (h *Handler) ClosePosition(c *gin.Context) {
	if h.trader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trading unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.close-position")
	defer span.End()

	var req closePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	span.SetAttributes(attribute.String("symbol", req.Symbol))

	trade, err := h.trader.CloseLong(ctx, req.Symbol)
	if err != nil {
		span.RecordError(err)
		h.fail(c, "position not closed", err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

// BuyOutcome godoc
// @Summary      Buy YES or NO shares with stablecoin
// @Description  Approves the stablecoin to the terminal, then submits buyYesWithUsdc or buyNoWithUsdc.
// @Tags         trading
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Param        request  body  handler.outcomeOrderRequest  true  "Side and stablecoin amount"
// @Success      200  {object}  service.Trade
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/market/buy [post]
func (h *Handler) BuyOutcome(c *gin.Context) {
	h.outcomeOrder(c, "handler.buy-outcome", "buy not submitted", func(t Trader) outcomeFunc { return t.Buy })
}

// DepositOutcome godoc
// @Summary      Deposit YES or NO tokens as collateral
// @Description  Approves the outcome token to the terminal, then submits depositYes or depositNo.
// @Tags         trading
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string  false  "API key"
// @Param        request  body  handler.outcomeOrderRequest  true  "Side and token amount"
// @Success      200  {object}  service.Trade
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/market/deposit [post]
func (h *Handler) DepositOutcome(c *gin.Context) {
	h.outcomeOrder(c, "handler.deposit-outcome", "deposit not submitted", func(t Trader) outcomeFunc { return t.Deposit })
}

func (h *Handler) outcomeOrder(c *gin.Context, spanName, failMsg string, pick func(Trader) outcomeFunc) {
	if h.trader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trading unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), spanName)
	defer span.End()

	var req outcomeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side and amount are required"})
		return
	}
	side, err := service.ParseSide(req.Side)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := amountField(c, req.Amount)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("side", string(side)))

	trade, err := pick(h.trader)(ctx, side, amount)
	if err != nil {
		span.RecordError(err)
		h.fail(c, failMsg, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}
