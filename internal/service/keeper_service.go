package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"prediction-terminal/internal/domain"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// KeeperChain is what the liquidation keeper needs from the contract client.
type KeeperChain interface {
	AccountSnapshot(ctx context.Context, user common.Address) (*domain.HealthSnapshot, error)
	Positions(ctx context.Context, user common.Address, symbols []string) ([]*domain.PositionSnapshot, error)
	LiquidatePosition(ctx context.Context, user common.Address, symbol string, price18 *big.Int) (common.Hash, error)
}

// PriceResolver resolves prices straight from upstream, bypassing the cache.
type PriceResolver interface {
	Resolve(ctx context.Context) (*domain.PriceSet, error)
}

// Liquidation is one submitted liquidatePosition transaction.
type Liquidation struct {
	User    string  `json:"user"`
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
	Price18 string  `json:"price18"`
	TxHash  string  `json:"tx_hash"`
}

// KeeperService liquidates unhealthy positions at a freshly resolved price.
type KeeperService struct {
	tracer  trace.Tracer
	logger  *zap.Logger
	symbols *domain.SymbolTable
	chain   KeeperChain
	prices  PriceResolver
	watch   []common.Address
}

func NewKeeperService(
	tracer trace.Tracer,
	logger *zap.Logger,
	symbols *domain.SymbolTable,
	chain KeeperChain,
	prices PriceResolver,
	watch []common.Address,
) *KeeperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeeperService{
		tracer:  tracer,
		logger:  logger,
		symbols: symbols,
		chain:   chain,
		prices:  prices,
		watch:   watch,
	}
}

// Watched returns the addresses Sweep checks.
func (k *KeeperService) Watched() []common.Address {
	return append([]common.Address(nil), k.watch...)
}

// Liquidate submits a liquidation for one position. It refuses to submit
// without a fresh price for symbol.
func (k *KeeperService) Liquidate(ctx context.Context, user common.Address, symbol string) (*Liquidation, error) {
	ctx, span := k.tracer.Start(ctx, "keeper.liquidate")
	defer span.End()

	asset, ok := k.symbols.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
	}

	set, err := k.prices.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return k.submit(ctx, user, asset.Symbol, set)
}

// Sweep checks every watched address and liquidates the open positions of
// those the terminal reports as liquidatable. Prices are resolved once per
// sweep; without them nothing is submitted.
func (k *KeeperService) Sweep(ctx context.Context) ([]*Liquidation, error) {
	ctx, span := k.tracer.Start(ctx, "keeper.sweep")
	defer span.End()
	span.SetAttributes(attribute.Int("watched", len(k.watch)))

	if len(k.watch) == 0 {
		return nil, nil
	}

	set, err := k.prices.Resolve(ctx)
	if err != nil {
		k.logger.Warn("skipping liquidation sweep without fresh prices", zap.Error(err))
		return nil, err
	}

	var (
		done []*Liquidation
		errs []error
	)
	for _, user := range k.watch {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		snap, err := k.chain.AccountSnapshot(ctx, user)
		if err != nil {
			k.logger.Warn("account read failed", zap.String("user", user.Hex()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if !snap.Liquidatable {
			continue
		}

		positions, err := k.chain.Positions(ctx, user, k.symbols.Symbols())
		if err != nil {
			k.logger.Warn("position read failed", zap.String("user", user.Hex()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		for _, pos := range positions {
			if !pos.Open() {
				continue
			}
			liq, err := k.submit(ctx, user, pos.Symbol, set)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			done = append(done, liq)
		}
	}
	span.SetAttributes(attribute.Int("liquidations", len(done)))
	return done, errors.Join(errs...)
}

func (k *KeeperService) submit(ctx context.Context, user common.Address, symbol string, set *domain.PriceSet) (*Liquidation, error) {
	quote := set.Quote(symbol)
	if quote == nil {
		k.logger.Warn("no price for liquidation", zap.String("user", user.Hex()), zap.String("symbol", symbol))
		return nil, fmt.Errorf("%w: no quote for %s", domain.ErrPriceUnavailable, symbol)
	}

	tx, err := k.chain.LiquidatePosition(ctx, user, symbol, quote.Scaled())
	if err != nil {
		k.logger.Error("liquidation failed",
			zap.String("user", user.Hex()),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		return nil, fmt.Errorf("liquidate %s %s: %w", user.Hex(), symbol, err)
	}

	k.logger.Info("liquidation submitted",
		zap.String("user", user.Hex()),
		zap.String("symbol", symbol),
		zap.String("price18", quote.Price18),
		zap.String("tx", tx.Hex()),
	)
	return &Liquidation{
		User:    user.Hex(),
		Symbol:  symbol,
		Price:   quote.Price,
		Price18: quote.Price18,
		TxHash:  tx.Hex(),
	}, nil
}
