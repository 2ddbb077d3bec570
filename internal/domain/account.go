package domain

import "math/big"

// HealthSnapshot is one read of a user's collateral state from the
// prediction terminal and stablecoin contracts. All amounts are 10^18-scaled.
type HealthSnapshot struct {
	BuyingPower         *big.Int
	Debt                *big.Int
	ShareValue          *big.Int
	HealthFactorRaw     *big.Int
	Liquidatable        bool
	CriticalLiquidation bool
	UsdcBalance         *big.Int
}

// PositionSnapshot is the leveraged-trading contract's view of one position.
type PositionSnapshot struct {
	Symbol          string
	PositionSizeUSD *big.Int
	EntryPrice      *big.Int
	Timestamp       *big.Int
	UnrealizedPnl   *big.Int
	HealthFactor    *big.Int
}

// Open reports whether the snapshot describes an open position.
func (p *PositionSnapshot) Open() bool {
	return p != nil && p.PositionSizeUSD != nil && p.PositionSizeUSD.Sign() > 0
}

// MarketPrices are the binary pool's current YES/NO prices.
type MarketPrices struct {
	YesPrice *big.Int
	NoPrice  *big.Int
}

// MarketUpdate is a decoded MarketUpdate event.
type MarketUpdate struct {
	MarketID  *big.Int
	YesPrice  *big.Int
	NoPrice   *big.Int
	Timestamp *big.Int
}
