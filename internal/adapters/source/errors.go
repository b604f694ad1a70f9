package source

import "errors"

// Sentinel errors for upstream access.
var (
	// ErrUpstreamUnavailable means the player data could not be obtained.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedPayload means a payload was fetched but could not be decoded.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)
