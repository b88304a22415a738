package repository

import "errors"

var (
	// ErrUnknownSymbol is returned when a query or symbol maps to no entity.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrUpstreamUnavailable wraps network, status and parse failures of an upstream source.
	// Adapters recover from it; it never crosses the adapter boundary.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
