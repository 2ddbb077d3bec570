package risk

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"prediction-terminal/internal/fixedpoint"
)

func TestClassifyHealthBoundaries(t *testing.T) {
	tests := []struct {
		pct                       float64
		healthy, warning, danger bool
	}{
		{200, true, false, false},
		{133, true, false, false},
		{132.999, false, true, false},
		{117, false, true, false},
		{116.999, false, false, true},
		{0, false, false, true},
	}
	for _, tt := range tests {
		got := ClassifyHealth(tt.pct)
		assert.Equal(t, tt.healthy, got.IsHealthy, "healthy at %v", tt.pct)
		assert.Equal(t, tt.warning, got.IsWarning, "warning at %v", tt.pct)
		assert.Equal(t, tt.danger, got.IsDanger, "danger at %v", tt.pct)
	}
}

func TestHealthMetricsFromRaw(t *testing.T) {
	got := HealthMetrics(big.NewInt(150))
	assert.Equal(t, 150.0, got.HealthFactorPct)
	assert.True(t, got.IsHealthy)

	got = HealthMetrics(big.NewInt(120))
	assert.True(t, got.IsWarning)

	for _, raw := range []*big.Int{nil, big.NewInt(0)} {
		got = HealthMetrics(raw)
		assert.Equal(t, 0.0, got.HealthFactorPct)
		assert.True(t, got.IsDanger)
	}
}

func TestUsagePercent(t *testing.T) {
	assert.Equal(t, 70.0, UsagePercent(fixedpoint.Units(1000), fixedpoint.Units(700)))
	assert.Equal(t, 0.0, UsagePercent(big.NewInt(0), fixedpoint.Units(700)))
	assert.Equal(t, 0.0, UsagePercent(nil, nil))
	assert.Equal(t, 33.33, UsagePercent(fixedpoint.Units(3), fixedpoint.Units(1)))
	assert.Equal(t, 150.0, UsagePercent(fixedpoint.Units(100), fixedpoint.Units(150)))
}

func TestRemainingBuyingPower(t *testing.T) {
	assert.Equal(t, fixedpoint.Units(300).String(),
		RemainingBuyingPower(fixedpoint.Units(1000), fixedpoint.Units(700)).String())

	pairs := [][2]int64{{0, 0}, {0, 5}, {5, 0}, {5, 5}, {5, 9}, {9, 5}}
	for _, p := range pairs {
		bp, debt := fixedpoint.Units(p[0]), fixedpoint.Units(p[1])
		got := RemainingBuyingPower(bp, debt)
		assert.GreaterOrEqual(t, got.Sign(), 0, "bp=%d debt=%d", p[0], p[1])
		assert.LessOrEqual(t, got.Cmp(bp), 0, "bp=%d debt=%d", p[0], p[1])
	}

	assert.Equal(t, "0", RemainingBuyingPower(nil, big.NewInt(1)).String())
	assert.Equal(t, "7", RemainingBuyingPower(big.NewInt(7), nil).String())
}

func TestRemainingBuyingPowerDoesNotAlias(t *testing.T) {
	bp := big.NewInt(10)
	got := RemainingBuyingPower(bp, nil)
	got.SetInt64(99)
	assert.Equal(t, int64(10), bp.Int64())
}

func TestPositionMetrics(t *testing.T) {
	got := PositionMetrics(fixedpoint.Units(100), fixedpoint.Units(50), 55.0)
	assert.InDelta(t, 110.0, got.CurrentValue, 1e-9)
	assert.InDelta(t, 10.0, got.PnlAmount, 1e-9)
	assert.InDelta(t, 10.0, got.PnlPercent, 1e-9)

	loss := PositionMetrics(fixedpoint.Units(200), fixedpoint.Units(100), 80.0)
	assert.InDelta(t, 160.0, loss.CurrentValue, 1e-9)
	assert.InDelta(t, -40.0, loss.PnlAmount, 1e-9)
	assert.InDelta(t, -20.0, loss.PnlPercent, 1e-9)
}

func TestPositionMetricsZeroGuards(t *testing.T) {
	zero := PnL{}
	assert.Equal(t, zero, PositionMetrics(big.NewInt(0), fixedpoint.Units(50), 55))
	assert.Equal(t, zero, PositionMetrics(fixedpoint.Units(100), big.NewInt(0), 55))
	assert.Equal(t, zero, PositionMetrics(nil, nil, 55))
}

func TestFormatScaledAmount(t *testing.T) {
	assert.Equal(t, "0.6200", FormatScaledAmount(big.NewInt(62e16)))
	assert.Equal(t, "0.0000", FormatScaledAmount(nil))
	assert.Equal(t, "1000.0000", FormatScaledAmount(fixedpoint.Units(1000)))
}
