package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"testing"

	"prediction-terminal/internal/domain"
	"prediction-terminal/internal/fixedpoint"

	"github.com/ethereum/go-ethereum/common"
)

type fakeTrader struct {
	failOn string
	sent   []string
}

func (f *fakeTrader) record(call string, args ...*big.Int) (common.Hash, error) {
	if f.failOn == call {
		return common.Hash{}, errors.New("execution reverted")
	}
	for _, a := range args {
		call += " " + a.String()
	}
	f.sent = append(f.sent, call)
	return common.BigToHash(big.NewInt(int64(len(f.sent)))), nil
}

func (f *fakeTrader) OpenLong(ctx context.Context, symbol string, usd18, price18 *big.Int) (common.Hash, error) {
	return f.record("openLong:"+symbol, usd18, price18)
}

func (f *fakeTrader) CloseLong(ctx context.Context, symbol string, price18 *big.Int) (common.Hash, error) {
	return f.record("closeLong:"+symbol, price18)
}

func (f *fakeTrader) ApproveUSDC(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("approveUSDC", amount)
}

func (f *fakeTrader) ApproveYes(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("approveYes", amount)
}

func (f *fakeTrader) ApproveNo(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("approveNo", amount)
}

func (f *fakeTrader) BuyYes(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("buyYes", amount)
}

func (f *fakeTrader) BuyNo(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("buyNo", amount)
}

func (f *fakeTrader) DepositYes(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("depositYes", amount)
}

func (f *fakeTrader) DepositNo(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return f.record("depositNo", amount)
}

type fakeQuotes struct {
	quotes map[string]*domain.PriceQuote
	err    error
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: no quote for %s", domain.ErrPriceUnavailable, symbol)
	}
	return q, nil
}

func newTestTrading(chain *fakeTrader, quotes *fakeQuotes) *TradingService {
	return NewTradingService(testTracer, nil, domain.DefaultSymbolTable(), chain, quotes)
}

func TestTradingService_OpenLongUsesLiveQuote(t *testing.T) {
	t.Parallel()

	chain := &fakeTrader{}
	trading := newTestTrading(chain, &fakeQuotes{quotes: map[string]*domain.PriceQuote{
		"SOL": domain.NewPriceQuote("SOL", 142.37),
	}})

	trade, err := trading.OpenLong(context.Background(), "sol", fixedpoint.Units(250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"openLong:SOL 250000000000000000000 142370000000000000000"}
	if !reflect.DeepEqual(chain.sent, want) {
		t.Fatalf("unexpected submissions: %v", chain.sent)
	}
	if trade.Symbol != "SOL" || trade.Price18 != "142370000000000000000" || len(trade.TxHashes) != 1 {
		t.Fatalf("unexpected trade: %+v", trade)
	}
}

func TestTradingService_RefusesWithoutPrice(t *testing.T) {
	t.Parallel()

	chain := &fakeTrader{}
	trading := newTestTrading(chain, &fakeQuotes{err: errors.Join(domain.ErrPriceUnavailable, errors.New("pyth down"))})

	if _, err := trading.OpenLong(context.Background(), "BTC", fixedpoint.Units(1)); !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable on open, got %v", err)
	}
	if _, err := trading.CloseLong(context.Background(), "BTC"); !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable on close, got %v", err)
	}

	// A missing entry in an otherwise good set is refused the same way.
	trading = newTestTrading(chain, &fakeQuotes{quotes: map[string]*domain.PriceQuote{}})
	if _, err := trading.CloseLong(context.Background(), "ETH"); !errors.Is(err, domain.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable for missing quote, got %v", err)
	}
	if len(chain.sent) != 0 {
		t.Fatalf("nothing may be submitted without a price, got %v", chain.sent)
	}
}

func TestTradingService_RejectsInvalidOrders(t *testing.T) {
	t.Parallel()

	chain := &fakeTrader{}
	trading := newTestTrading(chain, &fakeQuotes{quotes: map[string]*domain.PriceQuote{
		"BTC": domain.NewPriceQuote("BTC", 65000),
	}})
	ctx := context.Background()

	if _, err := trading.OpenLong(ctx, "DOGE", fixedpoint.Units(1)); !errors.Is(err, domain.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
	if _, err := trading.OpenLong(ctx, "BTC", big.NewInt(0)); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for zero size, got %v", err)
	}
	if _, err := trading.Buy(ctx, Side("maybe"), fixedpoint.Units(1)); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for bad side, got %v", err)
	}
	if _, err := trading.Deposit(ctx, SideNo, big.NewInt(-5)); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder for negative amount, got %v", err)
	}
	if len(chain.sent) != 0 {
		t.Fatalf("invalid orders must not reach the chain, got %v", chain.sent)
	}
}

func TestTradingService_BuyAndDepositApproveFirst(t *testing.T) {
	t.Parallel()

	chain := &fakeTrader{}
	trading := newTestTrading(chain, &fakeQuotes{})
	ctx := context.Background()
	ten := fixedpoint.Units(10)

	if _, err := trading.Buy(ctx, SideYes, ten); err != nil {
		t.Fatalf("buy yes: %v", err)
	}
	if _, err := trading.Buy(ctx, SideNo, ten); err != nil {
		t.Fatalf("buy no: %v", err)
	}
	if _, err := trading.Deposit(ctx, SideYes, ten); err != nil {
		t.Fatalf("deposit yes: %v", err)
	}
	trade, err := trading.Deposit(ctx, SideNo, ten)
	if err != nil {
		t.Fatalf("deposit no: %v", err)
	}

	amt := " " + ten.String()
	want := []string{
		"approveUSDC" + amt, "buyYes" + amt,
		"approveUSDC" + amt, "buyNo" + amt,
		"approveYes" + amt, "depositYes" + amt,
		"approveNo" + amt, "depositNo" + amt,
	}
	if !reflect.DeepEqual(chain.sent, want) {
		t.Fatalf("unexpected submissions:\n got %v\nwant %v", chain.sent, want)
	}
	if trade.Side != SideNo || len(trade.TxHashes) != 2 {
		t.Fatalf("unexpected trade: %+v", trade)
	}
}

func TestTradingService_StopsWhenApprovalFails(t *testing.T) {
	t.Parallel()

	chain := &fakeTrader{failOn: "approveUSDC"}
	trading := newTestTrading(chain, &fakeQuotes{})

	if _, err := trading.Buy(context.Background(), SideYes, fixedpoint.Units(1)); err == nil {
		t.Fatal("expected approval error")
	}
	if len(chain.sent) != 0 {
		t.Fatalf("buy must not follow a failed approval, got %v", chain.sent)
	}
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Side{"yes": SideYes, " NO ": SideNo} {
		got, err := ParseSide(in)
		if err != nil || got != want {
			t.Fatalf("ParseSide(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSide("both"); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}
