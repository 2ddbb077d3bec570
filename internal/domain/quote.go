package domain

import (
	"math/big"

	"prediction-terminal/internal/fixedpoint"
)

// PriceQuote is a resolved USD price for one symbol.
type PriceQuote struct {
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
	Price18 string  `json:"price18"`
}

// NewPriceQuote derives the scaled form from price, so the two never diverge.
func NewPriceQuote(symbol string, price float64) *PriceQuote {
	return &PriceQuote{
		Symbol:  symbol,
		Price:   price,
		Price18: fixedpoint.FromFloat(price).String(),
	}
}

// Scaled returns Price18 as an integer, ready to pass to a contract call.
func (q *PriceQuote) Scaled() *big.Int {
	n, ok := new(big.Int).SetString(q.Price18, 10)
	if !ok {
		return fixedpoint.FromFloat(q.Price)
	}
	return n
}

// PriceSource names where a resolution came from.
type PriceSource string

const (
	SourcePyth      PriceSource = "pyth"
	SourceCoinGecko PriceSource = "coingecko"
	SourceCache     PriceSource = "cache"
)

// PriceSet is the output of one resolution.
type PriceSet struct {
	Source PriceSource            `json:"source"`
	Quotes map[string]*PriceQuote `json:"quotes"`
}

// Quote returns the quote for symbol, or nil when it was not resolved.
func (s *PriceSet) Quote(symbol string) *PriceQuote {
	if s == nil {
		return nil
	}
	return s.Quotes[symbol]
}
