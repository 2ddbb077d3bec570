package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// gasHeadroomPct is added on top of the node's gas estimate.
const gasHeadroomPct = 20

// transact signs a legacy transaction with the keeper key and submits it.
// Nonce, gas price and gas limit come from the node.
func (c *Client) transact(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (common.Hash, error) {
	ctx, span := c.tracer.Start(ctx, "contract.transact")
	defer span.End()
	span.SetAttributes(attribute.String("method", method))

	if c.key == nil {
		return common.Hash{}, fmt.Errorf("%s: %w", method, ErrNoSigner)
	}
	if to == (common.Address{}) {
		return common.Hash{}, fmt.Errorf("%s: %w", method, ErrNotConfigured)
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack %s: %w", method, err)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: nonce: %w", method, err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: gas price: %w", method, err)
	}
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{From: c.from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: estimate gas: %w", method, err)
	}
	gas += gas * gasHeadroomPct / 100

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: chain id: %w", method, err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    new(big.Int),
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: sign: %w", method, err)
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		span.RecordError(err)
		return common.Hash{}, fmt.Errorf("%s: send: %w", method, err)
	}

	c.logger.Info("transaction submitted",
		zap.String("method", method),
		zap.String("to", to.Hex()),
		zap.String("tx", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
	)
	return signed.Hash(), nil
}

// Approve lets spender move amount of token on the keeper's behalf.
func (c *Client) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (common.Hash, error) {
	return c.transact(ctx, token, ERC20ABI, "approve", spender, amount)
}

// ApproveUSDC approves the prediction terminal to spend the keeper's stablecoin.
func (c *Client) ApproveUSDC(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return c.approveTerminal(ctx, c.addrs.MockUSDC, amount)
}

// ApproveYes and ApproveNo let the terminal pull outcome tokens for a deposit.
func (c *Client) ApproveYes(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return c.approveTerminal(ctx, c.addrs.YesToken, amount)
}

func (c *Client) ApproveNo(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return c.approveTerminal(ctx, c.addrs.NoToken, amount)
}

func (c *Client) approveTerminal(ctx context.Context, token common.Address, amount *big.Int) (common.Hash, error) {
	if c.addrs.PredictionTerminal == (common.Address{}) {
		return common.Hash{}, fmt.Errorf("approve: %w", ErrNotConfigured)
	}
	return c.Approve(ctx, token, c.addrs.PredictionTerminal, amount)
}

func (c *Client) BuyYes(ctx context.Context, usdcAmount *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.PredictionTerminal, TerminalABI, "buyYesWithUsdc", usdcAmount)
}

func (c *Client) BuyNo(ctx context.Context, usdcAmount *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.PredictionTerminal, TerminalABI, "buyNoWithUsdc", usdcAmount)
}

func (c *Client) DepositYes(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.PredictionTerminal, TerminalABI, "depositYes", amount)
}

func (c *Client) DepositNo(ctx context.Context, amount *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.PredictionTerminal, TerminalABI, "depositNo", amount)
}

// OpenLong opens a leveraged long of usd18 at price18.
func (c *Client) OpenLong(ctx context.Context, symbol string, usd18, price18 *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.LeveragedTrading, LeveragedABI, "openLong", symbol, usd18, price18)
}

func (c *Client) CloseLong(ctx context.Context, symbol string, price18 *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.LeveragedTrading, LeveragedABI, "closeLong", symbol, price18)
}

// LiquidatePosition liquidates user's position in symbol at price18. The
// contract rejects it unless the position is liquidatable.
func (c *Client) LiquidatePosition(ctx context.Context, user common.Address, symbol string, price18 *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.addrs.LeveragedTrading, LeveragedABI, "liquidatePosition", user, symbol, price18)
}
