package handler

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"prediction-terminal/internal/domain"
	"prediction-terminal/internal/service"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type PriceService interface {
	GetPrices(ctx context.Context) (*domain.PriceSet, error)
	GetQuote(ctx context.Context, symbol string) (*domain.PriceQuote, error)
}

type AccountService interface {
	Health(ctx context.Context, user common.Address) (*service.AccountHealth, error)
	Positions(ctx context.Context, user common.Address) (*service.PositionsReport, error)
	Market(ctx context.Context) (*service.MarketReport, error)
	MarketUpdates(ctx context.Context, fromBlock *big.Int) ([]*service.MarketUpdateReport, error)
}

type Liquidator interface {
	Liquidate(ctx context.Context, user common.Address, symbol string) (*service.Liquidation, error)
	Sweep(ctx context.Context) ([]*service.Liquidation, error)
	Watched() []common.Address
}

// SweepStats is the scheduled sweep's running tally.
type SweepStats interface {
	Total() int64
	LastError() string
}

type Trader interface {
	OpenLong(ctx context.Context, symbol string, usd18 *big.Int) (*service.Trade, error)
	CloseLong(ctx context.Context, symbol string) (*service.Trade, error)
	Buy(ctx context.Context, side service.Side, usdc18 *big.Int) (*service.Trade, error)
	Deposit(ctx context.Context, side service.Side, amount18 *big.Int) (*service.Trade, error)
}

type outcomeFunc func(ctx context.Context, side service.Side, amount *big.Int) (*service.Trade, error)

// CachePolicy sets the edge-cache headers on successful price responses.
type CachePolicy struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
}

type Handler struct {
	tracer   trace.Tracer
	logger   *zap.Logger
	symbols  *domain.SymbolTable
	prices   PriceService
	accounts AccountService
	keeper   Liquidator
	sweeps   SweepStats
	trader   Trader
	stream   http.Handler
	cache    CachePolicy
}

func New(tracer trace.Tracer, logger *zap.Logger, symbols *domain.SymbolTable, prices PriceService) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tracer:  tracer,
		logger:  logger,
		symbols: symbols,
		prices:  prices,
		cache: CachePolicy{
			MaxAge:               30 * time.Second,
			StaleWhileRevalidate: 60 * time.Second,
		},
	}
}

// SetAccountService enables the account and market routes. Without it they
// answer 503.
func (h *Handler) SetAccountService(a AccountService) {
	h.accounts = a
}

// SetLiquidator enables the liquidation routes.
func (h *Handler) SetLiquidator(l Liquidator) {
	h.keeper = l
}

// SetSweepStats adds the scheduled sweep's totals to /health.
func (h *Handler) SetSweepStats(s SweepStats) {
	h.sweeps = s
}

// SetTrader enables the keeper-signed trading routes.
func (h *Handler) SetTrader(t Trader) {
	h.trader = t
}

// SetPriceStream enables the websocket price feed at /ws/prices.
func (h *Handler) SetPriceStream(s http.Handler) {
	h.stream = s
}

func (h *Handler) SetCachePolicy(p CachePolicy) {
	if p.MaxAge > 0 {
		h.cache.MaxAge = p.MaxAge
	}
	if p.StaleWhileRevalidate > 0 {
		h.cache.StaleWhileRevalidate = p.StaleWhileRevalidate
	}
}

// RegisterRoutes mounts every route. Write routes sit behind APIKeyAuth.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.GET("/api/prices", h.GetAllPrices)
	r.GET("/api/prices/:symbol", h.GetPrice)
	r.GET("/api/accounts/:address/health", h.GetAccountHealth)
	r.GET("/api/accounts/:address/positions", h.GetPositions)
	r.GET("/api/market", h.GetMarket)
	r.GET("/api/market/updates", h.GetMarketUpdates)
	r.GET("/ws/prices", h.StreamPrices)

	auth := APIKeyAuth(apiKey)

	liquidations := r.Group("/api/liquidations", auth)
	liquidations.POST("", h.Liquidate)
	liquidations.POST("/sweep", h.Sweep)

	positions := r.Group("/api/positions", auth)
	positions.POST("/open", h.OpenPosition)
	positions.POST("/close", h.ClosePosition)

	orders := r.Group("/api/market", auth)
	orders.POST("/buy", h.BuyOutcome)
	orders.POST("/deposit", h.DepositOutcome)
}
