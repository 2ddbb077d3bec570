package contract

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marketUpdateLog(t *testing.T, marketID int64, yes, no, ts *big.Int) types.Log {
	t.Helper()
	data, err := TerminalABI.Events[marketUpdateEvent].Inputs.NonIndexed().Pack(yes, no, ts)
	require.NoError(t, err)
	return types.Log{
		Address: terminalAddr,
		Topics: []common.Hash{
			MarketUpdateTopic(),
			common.BigToHash(big.NewInt(marketID)),
		},
		Data: data,
	}
}

func TestDecodeMarketUpdate(t *testing.T) {
	l := marketUpdateLog(t, 3, big.NewInt(62e16), big.NewInt(38e16), big.NewInt(1_700_000_000))

	u, err := DecodeMarketUpdate(l)
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.MarketID.Int64())
	assert.Equal(t, big.NewInt(62e16).String(), u.YesPrice.String())
	assert.Equal(t, big.NewInt(38e16).String(), u.NoPrice.String())
	assert.Equal(t, int64(1_700_000_000), u.Timestamp.Int64())
}

func TestDecodeMarketUpdateRejectsOtherLogs(t *testing.T) {
	l := marketUpdateLog(t, 1, big.NewInt(1), big.NewInt(1), big.NewInt(1))

	other := l
	other.Topics = []common.Hash{common.HexToHash("0x01"), l.Topics[1]}
	_, err := DecodeMarketUpdate(other)
	assert.Error(t, err)

	short := l
	short.Topics = l.Topics[:1]
	_, err = DecodeMarketUpdate(short)
	assert.Error(t, err)

	truncated := l
	truncated.Data = l.Data[:40]
	_, err = DecodeMarketUpdate(truncated)
	assert.Error(t, err)
}

func TestMarketUpdatesFiltersAndDecodes(t *testing.T) {
	b := newFakeBackend()
	good := marketUpdateLog(t, 1, big.NewInt(5e17), big.NewInt(5e17), big.NewInt(10))
	bad := good
	bad.Topics = good.Topics[:1]
	b.logs = []types.Log{good, bad}

	updates, err := newTestClient(b).MarketUpdates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(1), updates[0].MarketID.Int64())

	assert.Equal(t, int64(4000), b.query.FromBlock.Int64())
	assert.Equal(t, []common.Address{terminalAddr}, b.query.Addresses)
	assert.Equal(t, MarketUpdateTopic(), b.query.Topics[0][0])
}

func TestMarketUpdatesFromBlock(t *testing.T) {
	b := newFakeBackend()
	_, err := newTestClient(b).MarketUpdates(context.Background(), big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), b.query.FromBlock.Int64())
}
