package domain

import "errors"

var (
	// ErrUpstreamTimeout means a price source did not answer within its bound.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstreamBadResponse covers non-200 replies and unparseable payloads.
	ErrUpstreamBadResponse = errors.New("upstream bad response")
	// ErrPriceUnavailable means every price source failed this cycle.
	ErrPriceUnavailable = errors.New("price unavailable")
	// ErrUnknownSymbol is returned for symbols outside the symbol table.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrInvalidOrder is returned for a non-positive amount or an unknown side.
	ErrInvalidOrder = errors.New("invalid order")
)
