// Package risk turns raw 18-decimal contract readings into the health, usage
// and P&L figures the terminal displays. Every function is pure and total:
// degenerate inputs produce zeroed results instead of errors.
package risk

import (
	"math/big"

	"github.com/shopspring/decimal"

	"prediction-terminal/internal/fixedpoint"
)

// Health factor thresholds, in percent.
const (
	HealthyThreshold = 133
	WarningThreshold = 117
)

var tenThousand = big.NewInt(10_000)

// HealthStatus classifies a health factor. Exactly one flag is set.
type HealthStatus struct {
	HealthFactorPct float64 `json:"health_factor_pct"`
	IsHealthy       bool    `json:"is_healthy"`
	IsWarning       bool    `json:"is_warning"`
	IsDanger        bool    `json:"is_danger"`
}

// HealthMetrics reads raw as a percentage. A zero or missing reading is
// reported as 0%, which classifies as danger.
func HealthMetrics(raw *big.Int) HealthStatus {
	pct := 0.0
	if raw != nil && raw.Sign() > 0 {
		pct, _ = new(big.Float).SetInt(raw).Float64()
	}
	return ClassifyHealth(pct)
}

// ClassifyHealth applies the thresholds to a percentage.
func ClassifyHealth(pct float64) HealthStatus {
	return HealthStatus{
		HealthFactorPct: pct,
		IsHealthy:       pct >= HealthyThreshold,
		IsWarning:       pct < HealthyThreshold && pct >= WarningThreshold,
		IsDanger:        pct < WarningThreshold,
	}
}

// UsagePercent is debt as a share of buying power, with two decimals. It is
// computed on integers scaled by 10^4 first, so large balances keep their
// precision. Values above 100 mean the account is over-extended.
func UsagePercent(buyingPower, debt *big.Int) float64 {
	if buyingPower == nil || buyingPower.Sign() <= 0 || debt == nil || debt.Sign() <= 0 {
		return 0
	}
	bps := new(big.Int).Mul(debt, tenThousand)
	bps.Quo(bps, buyingPower)
	return decimal.NewFromBigInt(bps, -2).InexactFloat64()
}

// RemainingBuyingPower is buyingPower - debt, floored at zero.
func RemainingBuyingPower(buyingPower, debt *big.Int) *big.Int {
	if buyingPower == nil {
		return new(big.Int)
	}
	if debt == nil {
		return new(big.Int).Set(buyingPower)
	}
	if buyingPower.Cmp(debt) > 0 {
		return new(big.Int).Sub(buyingPower, debt)
	}
	return new(big.Int)
}

// PnL is the mark-to-market view of a leveraged long.
type PnL struct {
	CurrentValue float64 `json:"current_value"`
	PnlAmount    float64 `json:"pnl_amount"`
	PnlPercent   float64 `json:"pnl_percent"`
}

// PositionMetrics marks a position of positionSizeUSD opened at entryPrice
// against currentPrice. No position or a zero entry price yields a zero PnL.
func PositionMetrics(positionSizeUSD, entryPrice *big.Int, currentPrice float64) PnL {
	if positionSizeUSD == nil || positionSizeUSD.Sign() == 0 || entryPrice == nil || entryPrice.Sign() == 0 {
		return PnL{}
	}

	size := fixedpoint.ToFloat(positionSizeUSD)
	entry := fixedpoint.ToFloat(entryPrice)

	current := size * (currentPrice / entry)
	return PnL{
		CurrentValue: current,
		PnlAmount:    current - size,
		PnlPercent:   (currentPrice - entry) / entry * 100,
	}
}

// FormatScaledAmount renders a 10^18-scaled amount with four decimals.
func FormatScaledAmount(raw *big.Int) string {
	return fixedpoint.Format(raw, 4)
}
