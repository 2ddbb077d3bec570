// Package contract talks to the prediction terminal, leveraged trading and
// stablecoin contracts over JSON-RPC.
package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prediction-terminal/internal/domain"
)

var (
	// ErrNotConfigured is returned when the target contract address is zero.
	ErrNotConfigured = errors.New("contract not configured")
	// ErrNoSigner is returned by write calls when no keeper key is loaded.
	ErrNoSigner = errors.New("no signer configured")
)

// Backend is the subset of *ethclient.Client the terminal uses.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Addresses of the deployed contracts. A zero address disables that contract.
type Addresses struct {
	PredictionTerminal common.Address
	LeveragedTrading   common.Address
	MockUSDC           common.Address
	YesToken           common.Address
	NoToken            common.Address
}

type Client struct {
	backend Backend
	addrs   Addresses
	tracer  trace.Tracer
	logger  *zap.Logger

	key  *ecdsa.PrivateKey
	from common.Address
}

func NewClient(backend Backend, addrs Addresses, tracer trace.Tracer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		backend: backend,
		addrs:   addrs,
		tracer:  tracer,
		logger:  logger,
	}
}

// WithSigner loads the hex-encoded keeper key used for write calls.
func (c *Client) WithSigner(hexKey string) error {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return fmt.Errorf("parse keeper key: %w", err)
	}
	c.key = key
	c.from = crypto.PubkeyToAddress(key.PublicKey)
	return nil
}

// Signer returns the keeper address, if a key is loaded.
func (c *Client) Signer() (common.Address, bool) {
	return c.from, c.key != nil
}

func (c *Client) TerminalConfigured() bool  { return c != nil && c.addrs.PredictionTerminal != (common.Address{}) }
func (c *Client) LeveragedConfigured() bool { return c != nil && c.addrs.LeveragedTrading != (common.Address{}) }

// ParseAddress validates a hex account address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func (c *Client) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if to == (common.Address{}) {
		return nil, fmt.Errorf("%s: %w", method, ErrNotConfigured)
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func (c *Client) callBigInt(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	values, err := c.call(ctx, to, parsed, method, args...)
	if err != nil {
		return nil, err
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("unpack %s: expected 1 value, got %d", method, len(values))
	}
	n, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack %s: unexpected type %T", method, values[0])
	}
	return n, nil
}

func (c *Client) callBool(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (bool, error) {
	values, err := c.call(ctx, to, parsed, method, args...)
	if err != nil {
		return false, err
	}
	if len(values) != 1 {
		return false, fmt.Errorf("unpack %s: expected 1 value, got %d", method, len(values))
	}
	b, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("unpack %s: unexpected type %T", method, values[0])
	}
	return b, nil
}

func (c *Client) BuyingPower(ctx context.Context, user common.Address) (*big.Int, error) {
	return c.callBigInt(ctx, c.addrs.PredictionTerminal, TerminalABI, "getBuyingPower", user)
}

func (c *Client) Debt(ctx context.Context, user common.Address) (*big.Int, error) {
	return c.callBigInt(ctx, c.addrs.PredictionTerminal, TerminalABI, "getDebt", user)
}

func (c *Client) ShareValue(ctx context.Context, user common.Address) (*big.Int, error) {
	return c.callBigInt(ctx, c.addrs.PredictionTerminal, TerminalABI, "getCurrentShareValue", user)
}

func (c *Client) HealthFactor(ctx context.Context, user common.Address) (*big.Int, error) {
	return c.callBigInt(ctx, c.addrs.PredictionTerminal, TerminalABI, "getHealthFactor", user)
}

func (c *Client) CheckLiquidation(ctx context.Context, user common.Address) (bool, error) {
	return c.callBool(ctx, c.addrs.PredictionTerminal, TerminalABI, "checkLiquidation", user)
}

func (c *Client) CheckCriticalLiquidation(ctx context.Context, user common.Address) (bool, error) {
	return c.callBool(ctx, c.addrs.PredictionTerminal, TerminalABI, "checkCriticalLiquidation", user)
}

// USDCBalance reads the stablecoin balance. It is zero when the stablecoin
// is not configured.
func (c *Client) USDCBalance(ctx context.Context, user common.Address) (*big.Int, error) {
	if c.addrs.MockUSDC == (common.Address{}) {
		return new(big.Int), nil
	}
	return c.callBigInt(ctx, c.addrs.MockUSDC, ERC20ABI, "balanceOf", user)
}

func (c *Client) YesPrice(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, c.addrs.PredictionTerminal, TerminalABI, "getYesPrice")
}

func (c *Client) NoPrice(ctx context.Context) (*big.Int, error) {
	return c.callBigInt(ctx, c.addrs.PredictionTerminal, TerminalABI, "getNoPrice")
}

// AccountSnapshot reads every collateral figure for user concurrently.
func (c *Client) AccountSnapshot(ctx context.Context, user common.Address) (*domain.HealthSnapshot, error) {
	ctx, span := c.tracer.Start(ctx, "contract.account-snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("user", user.Hex()))

	if !c.TerminalConfigured() {
		return nil, ErrNotConfigured
	}

	var snap domain.HealthSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.BuyingPower, err = c.BuyingPower(gctx, user); return })
	g.Go(func() (err error) { snap.Debt, err = c.Debt(gctx, user); return })
	g.Go(func() (err error) { snap.ShareValue, err = c.ShareValue(gctx, user); return })
	g.Go(func() (err error) { snap.HealthFactorRaw, err = c.HealthFactor(gctx, user); return })
	g.Go(func() (err error) { snap.Liquidatable, err = c.CheckLiquidation(gctx, user); return })
	g.Go(func() (err error) { snap.CriticalLiquidation, err = c.CheckCriticalLiquidation(gctx, user); return })
	g.Go(func() (err error) { snap.UsdcBalance, err = c.USDCBalance(gctx, user); return })
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &snap, nil
}

// Position reads one leveraged position.
func (c *Client) Position(ctx context.Context, user common.Address, symbol string) (*domain.PositionSnapshot, error) {
	values, err := c.call(ctx, c.addrs.LeveragedTrading, LeveragedABI, "getPosition", user, symbol)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unpack getPosition: expected 5 values, got %d", len(values))
	}
	nums := make([]*big.Int, len(values))
	for i, v := range values {
		n, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("unpack getPosition: value %d has type %T", i, v)
		}
		nums[i] = n
	}
	return &domain.PositionSnapshot{
		Symbol:          symbol,
		PositionSizeUSD: nums[0],
		EntryPrice:      nums[1],
		Timestamp:       nums[2],
		UnrealizedPnl:   nums[3],
		HealthFactor:    nums[4],
	}, nil
}

// Positions reads one position per symbol, preserving the order of symbols.
func (c *Client) Positions(ctx context.Context, user common.Address, symbols []string) ([]*domain.PositionSnapshot, error) {
	ctx, span := c.tracer.Start(ctx, "contract.positions")
	defer span.End()

	if !c.LeveragedConfigured() {
		return nil, ErrNotConfigured
	}

	out := make([]*domain.PositionSnapshot, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, sym := range symbols {
		g.Go(func() error {
			pos, err := c.Position(gctx, user, sym)
			if err != nil {
				return err
			}
			out[i] = pos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

// MarketPrices reads the binary pool's YES and NO prices.
func (c *Client) MarketPrices(ctx context.Context) (*domain.MarketPrices, error) {
	ctx, span := c.tracer.Start(ctx, "contract.market-prices")
	defer span.End()

	if !c.TerminalConfigured() {
		return nil, ErrNotConfigured
	}

	var prices domain.MarketPrices
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { prices.YesPrice, err = c.YesPrice(gctx); return })
	g.Go(func() (err error) { prices.NoPrice, err = c.NoPrice(gctx); return })
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &prices, nil
}
