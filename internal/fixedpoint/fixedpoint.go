// Package fixedpoint converts between float prices and the 18-decimal
// integers used by the terminal contracts.
package fixedpoint

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the scale of every on-chain amount the terminal reads or writes.
const Decimals = 18

// FromFloat returns round(v * 10^18). Every float price that needs a scaled
// form goes through here. NaN, infinities and non-positive values map to zero.
func FromFloat(v float64) *big.Int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return new(big.Int)
	}
	return decimal.NewFromFloat(v).Shift(Decimals).Round(0).BigInt()
}

// ToFloat scales raw down by 10^18. A nil raw reads as zero.
func ToFloat(raw *big.Int) float64 {
	if raw == nil {
		return 0
	}
	return decimal.NewFromBigInt(raw, -Decimals).InexactFloat64()
}

// FromMantissa evaluates mantissa * 10^expo, the encoding oracle feeds use.
func FromMantissa(mantissa string, expo int32) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(mantissa))
	if err != nil {
		return 0, fmt.Errorf("parse mantissa %q: %w", mantissa, err)
	}
	return d.Shift(expo).InexactFloat64(), nil
}

// Format renders a scaled integer with a fixed number of decimal places.
func Format(raw *big.Int, places int32) string {
	if raw == nil {
		return decimal.Zero.StringFixed(places)
	}
	return decimal.NewFromBigInt(raw, -Decimals).StringFixed(places)
}

// Parse is the inverse of Format: "12.3456" becomes 12345600000000000000.
func Parse(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("parse amount %q: negative", s)
	}
	return d.Shift(Decimals).Round(0).BigInt(), nil
}

// Units returns n whole units as a scaled integer.
func Units(n int64) *big.Int {
	return decimal.NewFromInt(n).Shift(Decimals).BigInt()
}
