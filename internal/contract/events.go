package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"prediction-terminal/internal/domain"
)

// DefaultLookbackBlocks bounds MarketUpdates when no start block is given.
const DefaultLookbackBlocks = 1000

var errNotMarketUpdate = errors.New("log is not a MarketUpdate event")

// MarketUpdateTopic is topic[0] of every MarketUpdate log.
func MarketUpdateTopic() common.Hash {
	return TerminalABI.Events[marketUpdateEvent].ID
}

// DecodeMarketUpdate decodes a MarketUpdate log. The market id is the
// indexed topic; prices and timestamp come from the data section.
func DecodeMarketUpdate(log types.Log) (*domain.MarketUpdate, error) {
	if len(log.Topics) != 2 || log.Topics[0] != MarketUpdateTopic() {
		return nil, errNotMarketUpdate
	}
	values, err := TerminalABI.Unpack(marketUpdateEvent, log.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", marketUpdateEvent, err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unpack %s: expected 3 values, got %d", marketUpdateEvent, len(values))
	}
	nums := make([]*big.Int, 3)
	for i, v := range values {
		n, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("unpack %s: value %d has type %T", marketUpdateEvent, i, v)
		}
		nums[i] = n
	}
	return &domain.MarketUpdate{
		MarketID:  new(big.Int).SetBytes(log.Topics[1].Bytes()),
		YesPrice:  nums[0],
		NoPrice:   nums[1],
		Timestamp: nums[2],
	}, nil
}

// MarketUpdates returns decoded MarketUpdate events emitted since fromBlock.
// A nil fromBlock looks back DefaultLookbackBlocks from the chain head.
func (c *Client) MarketUpdates(ctx context.Context, fromBlock *big.Int) ([]*domain.MarketUpdate, error) {
	ctx, span := c.tracer.Start(ctx, "contract.market-updates")
	defer span.End()

	if !c.TerminalConfigured() {
		return nil, ErrNotConfigured
	}

	if fromBlock == nil {
		head, err := c.backend.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("block number: %w", err)
		}
		start := int64(head) - DefaultLookbackBlocks
		if start < 0 {
			start = 0
		}
		fromBlock = big.NewInt(start)
	}

	logs, err := c.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: fromBlock,
		Addresses: []common.Address{c.addrs.PredictionTerminal},
		Topics:    [][]common.Hash{{MarketUpdateTopic()}},
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("filter logs: %w", err)
	}

	updates := make([]*domain.MarketUpdate, 0, len(logs))
	for _, l := range logs {
		u, err := DecodeMarketUpdate(l)
		if err != nil {
			continue
		}
		updates = append(updates, u)
	}
	return updates, nil
}
