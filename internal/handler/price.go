package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"prediction-terminal/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PriceEntry is one symbol in the /api/prices response.
type PriceEntry struct {
	Price   float64 `json:"price"`
	Price18 string  `json:"price18"`
}

func (h *Handler) setEdgeCache(c *gin.Context) {
	maxAge := int(h.cache.MaxAge.Seconds())
	c.Header("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		maxAge, int(h.cache.StaleWhileRevalidate.Seconds())))
	c.Header("CDN-Cache-Control", fmt.Sprintf("public, s-maxage=%d", maxAge))
}

// GetAllPrices godoc
// @Summary      Get current prices for all configured assets
// @Description  Resolves USD prices from Pyth Hermes with a CoinGecko fallback. Each entry carries the float price and its 10^18-scaled integer string.
// @Tags         prices
// @Produce      json
// @Success      200  {object}  map[string]handler.PriceEntry
// @Failure      502  {object}  map[string]string
// @Router       /api/prices [get]
func (h *Handler) GetAllPrices(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-all-prices")
	defer span.End()

	set, err := h.prices.GetPrices(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.Warn("price request failed", zap.Error(err))
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch prices"})
		return
	}

	out := make(map[string]PriceEntry, len(set.Quotes))
	for sym, q := range set.Quotes {
		out[sym] = PriceEntry{Price: q.Price, Price18: q.Price18}
	}

	h.setEdgeCache(c)
	c.Header("X-Price-Source", string(set.Source))
	c.JSON(http.StatusOK, out)
}

// GetPrice godoc
// @Summary      Get the current price for one asset
// @Tags         prices
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol (e.g., SOL, ETH, BTC)"
// @Success      200  {object}  domain.PriceQuote
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]string
// @Router       /api/prices/{symbol} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	symbol := strings.ToUpper(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	quote, err := h.prices.GetQuote(ctx, symbol)
	if errors.Is(err, domain.ErrUnknownSymbol) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported symbol: " + symbol,
			"supported_symbols": h.symbols.Symbols(),
		})
		return
	}
	if err != nil {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch price for " + symbol})
		return
	}

	h.setEdgeCache(c)
	c.JSON(http.StatusOK, quote)
}

// StreamPrices godoc
// @Summary      Stream live prices over a websocket
// @Description  Upgrades to a websocket and pushes a frame each poll tick. New clients receive the last frame immediately.
// @Tags         prices
// @Success      101
// @Failure      503  {object}  map[string]string
// @Router       /ws/prices [get]
func (h *Handler) StreamPrices(c *gin.Context) {
	if h.stream == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "price stream unavailable"})
		return
	}
	h.stream.ServeHTTP(c.Writer, c.Request)
}
