package service

import (
	"context"
	"math/big"

	"prediction-terminal/internal/domain"
	"prediction-terminal/internal/risk"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ChainReader is the read side of the contract client.
type ChainReader interface {
	AccountSnapshot(ctx context.Context, user common.Address) (*domain.HealthSnapshot, error)
	Positions(ctx context.Context, user common.Address, symbols []string) ([]*domain.PositionSnapshot, error)
	MarketPrices(ctx context.Context) (*domain.MarketPrices, error)
	MarketUpdates(ctx context.Context, fromBlock *big.Int) ([]*domain.MarketUpdate, error)
}

// PriceReader supplies the live USD prices positions are valued against.
type PriceReader interface {
	GetPrices(ctx context.Context) (*domain.PriceSet, error)
}

// Amount is a 10^18-scaled integer with its 4-dp display form.
type Amount struct {
	Raw     string `json:"raw"`
	Display string `json:"display"`
}

func newAmount(raw *big.Int) Amount {
	if raw == nil {
		raw = new(big.Int)
	}
	return Amount{Raw: raw.String(), Display: risk.FormatScaledAmount(raw)}
}

type AccountHealth struct {
	Address              string            `json:"address"`
	BuyingPower          Amount            `json:"buying_power"`
	Debt                 Amount            `json:"debt"`
	ShareValue           Amount            `json:"share_value"`
	UsdcBalance          Amount            `json:"usdc_balance"`
	RemainingBuyingPower Amount            `json:"remaining_buying_power"`
	UsagePct             float64           `json:"usage_pct"`
	Health               risk.HealthStatus `json:"health"`
	Liquidatable         bool              `json:"liquidatable"`
	CriticalLiquidation  bool              `json:"critical_liquidation"`
}

type PositionReport struct {
	Symbol         string  `json:"symbol"`
	Open           bool    `json:"open"`
	Size           Amount  `json:"size_usd"`
	EntryPrice     Amount  `json:"entry_price"`
	OpenedAt       int64   `json:"opened_at"`
	OnchainPnl     string  `json:"onchain_unrealized_pnl"`
	OnchainHealth  string  `json:"onchain_health_factor"`
	PriceAvailable bool    `json:"price_available"`
	CurrentPrice   float64 `json:"current_price"`
	CurrentValue   float64 `json:"current_value"`
	PnlAmount      float64 `json:"pnl_amount"`
	PnlPercent     float64 `json:"pnl_percent"`
}

type PositionsReport struct {
	Address     string             `json:"address"`
	PriceSource domain.PriceSource `json:"price_source,omitempty"`
	Positions   []*PositionReport  `json:"positions"`
}

type MarketReport struct {
	YesPrice Amount `json:"yes_price"`
	NoPrice  Amount `json:"no_price"`
}

type MarketUpdateReport struct {
	MarketID  string `json:"market_id"`
	YesPrice  string `json:"yes_price"`
	NoPrice   string `json:"no_price"`
	Timestamp int64  `json:"timestamp"`
}

// AccountService turns raw contract reads into health, position and market
// reports.
type AccountService struct {
	tracer  trace.Tracer
	logger  *zap.Logger
	symbols *domain.SymbolTable
	chain   ChainReader
	prices  PriceReader
}

func NewAccountService(tracer trace.Tracer, logger *zap.Logger, symbols *domain.SymbolTable, chain ChainReader, prices PriceReader) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		tracer:  tracer,
		logger:  logger,
		symbols: symbols,
		chain:   chain,
		prices:  prices,
	}
}

// Health reads the account's collateral state and derives risk metrics.
func (s *AccountService) Health(ctx context.Context, user common.Address) (*AccountHealth, error) {
	ctx, span := s.tracer.Start(ctx, "account-service.health")
	defer span.End()
	span.SetAttributes(attribute.String("user", user.Hex()))

	snap, err := s.chain.AccountSnapshot(ctx, user)
	if err != nil {
		return nil, err
	}
	return BuildAccountHealth(user, snap), nil
}

// BuildAccountHealth derives the report for an already-read snapshot.
func BuildAccountHealth(user common.Address, snap *domain.HealthSnapshot) *AccountHealth {
	return &AccountHealth{
		Address:              user.Hex(),
		BuyingPower:          newAmount(snap.BuyingPower),
		Debt:                 newAmount(snap.Debt),
		ShareValue:           newAmount(snap.ShareValue),
		UsdcBalance:          newAmount(snap.UsdcBalance),
		RemainingBuyingPower: newAmount(risk.RemainingBuyingPower(snap.BuyingPower, snap.Debt)),
		UsagePct:             risk.UsagePercent(snap.BuyingPower, snap.Debt),
		Health:               risk.HealthMetrics(snap.HealthFactorRaw),
		Liquidatable:         snap.Liquidatable,
		CriticalLiquidation:  snap.CriticalLiquidation,
	}
}

// Positions values each configured symbol's position against live prices.
// Missing prices are not an error: affected positions report
// price_available=false with zeroed metrics.
func (s *AccountService) Positions(ctx context.Context, user common.Address) (*PositionsReport, error) {
	ctx, span := s.tracer.Start(ctx, "account-service.positions")
	defer span.End()
	span.SetAttributes(attribute.String("user", user.Hex()))

	positions, err := s.chain.Positions(ctx, user, s.symbols.Symbols())
	if err != nil {
		return nil, err
	}

	report := &PositionsReport{Address: user.Hex(), Positions: make([]*PositionReport, 0, len(positions))}

	var set *domain.PriceSet
	if s.prices != nil {
		set, err = s.prices.GetPrices(ctx)
		if err != nil {
			s.logger.Warn("valuing positions without prices", zap.Error(err))
			set = nil
		}
	}
	if set != nil {
		report.PriceSource = set.Source
	}

	for _, pos := range positions {
		report.Positions = append(report.Positions, buildPositionReport(pos, set.Quote(pos.Symbol)))
	}
	return report, nil
}

func buildPositionReport(pos *domain.PositionSnapshot, quote *domain.PriceQuote) *PositionReport {
	r := &PositionReport{
		Symbol:        pos.Symbol,
		Open:          pos.Open(),
		Size:          newAmount(pos.PositionSizeUSD),
		EntryPrice:    newAmount(pos.EntryPrice),
		OnchainPnl:    bigString(pos.UnrealizedPnl),
		OnchainHealth: bigString(pos.HealthFactor),
		OpenedAt:      bigInt64(pos.Timestamp),
	}
	if quote == nil {
		return r
	}

	r.PriceAvailable = true
	r.CurrentPrice = quote.Price
	if r.Open {
		pnl := risk.PositionMetrics(pos.PositionSizeUSD, pos.EntryPrice, quote.Price)
		r.CurrentValue = pnl.CurrentValue
		r.PnlAmount = pnl.PnlAmount
		r.PnlPercent = pnl.PnlPercent
	}
	return r
}

func bigString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

func bigInt64(n *big.Int) int64 {
	if n == nil {
		return 0
	}
	return n.Int64()
}

// Market reads the binary pool's YES/NO prices.
func (s *AccountService) Market(ctx context.Context) (*MarketReport, error) {
	ctx, span := s.tracer.Start(ctx, "account-service.market")
	defer span.End()

	prices, err := s.chain.MarketPrices(ctx)
	if err != nil {
		return nil, err
	}
	return &MarketReport{YesPrice: newAmount(prices.YesPrice), NoPrice: newAmount(prices.NoPrice)}, nil
}

// MarketUpdates returns recent MarketUpdate events formatted for display.
func (s *AccountService) MarketUpdates(ctx context.Context, fromBlock *big.Int) ([]*MarketUpdateReport, error) {
	ctx, span := s.tracer.Start(ctx, "account-service.market-updates")
	defer span.End()

	updates, err := s.chain.MarketUpdates(ctx, fromBlock)
	if err != nil {
		return nil, err
	}
	out := make([]*MarketUpdateReport, 0, len(updates))
	for _, u := range updates {
		out = append(out, &MarketUpdateReport{
			MarketID:  bigString(u.MarketID),
			YesPrice:  risk.FormatScaledAmount(u.YesPrice),
			NoPrice:   risk.FormatScaledAmount(u.NoPrice),
			Timestamp: bigInt64(u.Timestamp),
		})
	}
	return out, nil
}
