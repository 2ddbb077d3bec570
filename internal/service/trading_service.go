package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"prediction-terminal/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TradingChain is the keeper-signed write surface of the contract client.
type TradingChain interface {
	OpenLong(ctx context.Context, symbol string, usd18, price18 *big.Int) (common.Hash, error)
	CloseLong(ctx context.Context, symbol string, price18 *big.Int) (common.Hash, error)
	ApproveUSDC(ctx context.Context, amount *big.Int) (common.Hash, error)
	ApproveYes(ctx context.Context, amount *big.Int) (common.Hash, error)
	ApproveNo(ctx context.Context, amount *big.Int) (common.Hash, error)
	BuyYes(ctx context.Context, usdcAmount *big.Int) (common.Hash, error)
	BuyNo(ctx context.Context, usdcAmount *big.Int) (common.Hash, error)
	DepositYes(ctx context.Context, amount *big.Int) (common.Hash, error)
	DepositNo(ctx context.Context, amount *big.Int) (common.Hash, error)
}

type QuoteReader interface {
	GetQuote(ctx context.Context, symbol string) (*domain.PriceQuote, error)
}

// Side is one outcome of the binary market.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideYes:
		return SideYes, nil
	case SideNo:
		return SideNo, nil
	default:
		return "", fmt.Errorf("%w: side %q", domain.ErrInvalidOrder, s)
	}
}

// Trade reports the transactions one order submitted, in order.
type Trade struct {
	Action   string   `json:"action"`
	Symbol   string   `json:"symbol,omitempty"`
	Side     Side     `json:"side,omitempty"`
	Amount18 string   `json:"amount18,omitempty"`
	Price    float64  `json:"price,omitempty"`
	Price18  string   `json:"price18,omitempty"`
	TxHashes []string `json:"tx_hashes"`
}

// TradingService submits orders signed with the keeper key. Leveraged
// orders carry the live quote for their symbol and are refused without one.
type TradingService struct {
	tracer  trace.Tracer
	logger  *zap.Logger
	symbols *domain.SymbolTable
	chain   TradingChain
	prices  QuoteReader
}

func NewTradingService(
	tracer trace.Tracer,
	logger *zap.Logger,
	symbols *domain.SymbolTable,
	chain TradingChain,
	prices QuoteReader,
) *TradingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradingService{
		tracer:  tracer,
		logger:  logger,
		symbols: symbols,
		chain:   chain,
		prices:  prices,
	}
}

// OpenLong opens a long of usd18 in symbol at the current price.
func (t *TradingService) OpenLong(ctx context.Context, symbol string, usd18 *big.Int) (*Trade, error) {
	ctx, span := t.tracer.Start(ctx, "trading.open-long")
	defer span.End()

	if err := positive(usd18); err != nil {
		return nil, err
	}
	quote, err := t.quote(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("symbol", quote.Symbol), attribute.String("price18", quote.Price18))

	tx, err := t.chain.OpenLong(ctx, quote.Symbol, usd18, quote.Scaled())
	if err != nil {
		return nil, fmt.Errorf("open long %s: %w", quote.Symbol, err)
	}
	t.logger.Info("long opened",
		zap.String("symbol", quote.Symbol),
		zap.String("usd18", usd18.String()),
		zap.String("price18", quote.Price18),
		zap.String("tx", tx.Hex()),
	)
	return &Trade{
		Action:   "open_long",
		Symbol:   quote.Symbol,
		Amount18: usd18.String(),
		Price:    quote.Price,
		Price18:  quote.Price18,
		TxHashes: []string{tx.Hex()},
	}, nil
}

// CloseLong closes the keeper's long in symbol at the current price.
func (t *TradingService) CloseLong(ctx context.Context, symbol string) (*Trade, error) {
	ctx, span := t.tracer.Start(ctx, "trading.close-long")
	defer span.End()

	quote, err := t.quote(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	tx, err := t.chain.CloseLong(ctx, quote.Symbol, quote.Scaled())
	if err != nil {
		return nil, fmt.Errorf("close long %s: %w", quote.Symbol, err)
	}
	t.logger.Info("long closed",
		zap.String("symbol", quote.Symbol),
		zap.String("price18", quote.Price18),
		zap.String("tx", tx.Hex()),
	)
	return &Trade{
		Action:   "close_long",
		Symbol:   quote.Symbol,
		Price:    quote.Price,
		Price18:  quote.Price18,
		TxHashes: []string{tx.Hex()},
	}, nil
}

// Buy approves usdc18 of stablecoin to the terminal, then buys side with it.
func (t *TradingService) Buy(ctx context.Context, side Side, usdc18 *big.Int) (*Trade, error) {
	ctx, span := t.tracer.Start(ctx, "trading.buy")
	defer span.End()
	span.SetAttributes(attribute.String("side", string(side)))

	buy := t.chain.BuyYes
	switch side {
	case SideYes:
	case SideNo:
		buy = t.chain.BuyNo
	default:
		return nil, fmt.Errorf("%w: side %q", domain.ErrInvalidOrder, side)
	}
	return t.approveThen(ctx, "buy", side, usdc18, t.chain.ApproveUSDC, buy)
}

// Deposit approves amount18 of the side's outcome token, then deposits it
// as collateral.
func (t *TradingService) Deposit(ctx context.Context, side Side, amount18 *big.Int) (*Trade, error) {
	ctx, span := t.tracer.Start(ctx, "trading.deposit")
	defer span.End()
	span.SetAttributes(attribute.String("side", string(side)))

	approve, deposit := t.chain.ApproveYes, t.chain.DepositYes
	switch side {
	case SideYes:
	case SideNo:
		approve, deposit = t.chain.ApproveNo, t.chain.DepositNo
	default:
		return nil, fmt.Errorf("%w: side %q", domain.ErrInvalidOrder, side)
	}
	return t.approveThen(ctx, "deposit", side, amount18, approve, deposit)
}

type txFunc func(ctx context.Context, amount *big.Int) (common.Hash, error)

func (t *TradingService) approveThen(ctx context.Context, action string, side Side, amount *big.Int, approve, submit txFunc) (*Trade, error) {
	if err := positive(amount); err != nil {
		return nil, err
	}

	approval, err := approve(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("%s %s: approve: %w", action, side, err)
	}
	tx, err := submit(ctx, amount)
	if err != nil {
		t.logger.Error("order failed after approval",
			zap.String("action", action),
			zap.String("side", string(side)),
			zap.String("approval", approval.Hex()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", action, side, err)
	}

	t.logger.Info("order submitted",
		zap.String("action", action),
		zap.String("side", string(side)),
		zap.String("amount18", amount.String()),
		zap.String("tx", tx.Hex()),
	)
	return &Trade{
		Action:   action,
		Side:     side,
		Amount18: amount.String(),
		TxHashes: []string{approval.Hex(), tx.Hex()},
	}, nil
}

func (t *TradingService) quote(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	asset, ok := t.symbols.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}
	q, err := t.prices.GetQuote(ctx, asset.Symbol)
	if err != nil {
		t.logger.Warn("order refused without price", zap.String("symbol", asset.Symbol), zap.Error(err))
		return nil, err
	}
	if q == nil || q.Price <= 0 {
		return nil, fmt.Errorf("%w: no quote for %s", domain.ErrPriceUnavailable, asset.Symbol)
	}
	return q, nil
}

func positive(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidOrder)
	}
	return nil
}
