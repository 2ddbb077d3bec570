package fixedpoint

import (
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"whole", 55, "55000000000000000000"},
		{"tenth", 0.1, "100000000000000000"},
		{"cents", 142.37, "142370000000000000000"},
		{"zero", 0, "0"},
		{"negative", -3.5, "0"},
		{"nan", math.NaN(), "0"},
		{"inf", math.Inf(1), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromFloat(tt.in).String())
		})
	}
}

func TestOracleMantissaScalesExactly(t *testing.T) {
	pairs := []struct {
		mantissa string
		expo     int32
	}{
		{"14523456789", -8},
		{"345612345678", -8},
		{"6512345678900", -8},
		{"99999999", -8},
		{"1", 0},
		{"1234567", -2},
	}
	one := big.NewInt(1)
	for _, p := range pairs {
		price, err := FromMantissa(p.mantissa, p.expo)
		require.NoError(t, err)

		exact := decimal.RequireFromString(p.mantissa).Shift(p.expo + Decimals).Round(0).BigInt()
		got := FromFloat(price)

		diff := new(big.Int).Sub(got, exact)
		assert.True(t, diff.CmpAbs(one) <= 0, "mantissa %s expo %d: got %s want %s", p.mantissa, p.expo, got, exact)
	}
}

func TestFromMantissaRejectsGarbage(t *testing.T) {
	_, err := FromMantissa("12x", -8)
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	raw, ok := new(big.Int).SetString("1234567800000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1234.5678", Format(raw, 4))
	assert.Equal(t, "0.0000", Format(nil, 4))
	assert.Equal(t, "0.5000", Format(big.NewInt(5e17), 4))
}

func TestFormatParseRoundTrip(t *testing.T) {
	tolerance := big.NewInt(1e14) // 1e-4 scaled
	samples := []string{
		"0",
		"1",
		"123456789012345678",
		"55000000000000000000",
		"65123456789000000000000",
		"999999999999999999",
		"1000050000000000000",
	}
	for _, s := range samples {
		raw, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)

		back, err := Parse(Format(raw, 4))
		require.NoError(t, err)

		diff := new(big.Int).Sub(back, raw)
		assert.True(t, diff.CmpAbs(tolerance) <= 0, "%s round-tripped to %s", s, back)
	}
}

func TestParseRejectsNegative(t *testing.T) {
	_, err := Parse("-1.5")
	require.Error(t, err)
}

func TestToFloatAndUnits(t *testing.T) {
	assert.Equal(t, 0.0, ToFloat(nil))
	assert.Equal(t, 1000.0, ToFloat(Units(1000)))
	assert.Equal(t, "300000000000000000000", Units(300).String())
}
