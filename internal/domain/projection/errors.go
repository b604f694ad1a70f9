package projection

import "errors"

// Sentinel errors for projection configuration.
var (
	ErrUnknownSignal = errors.New("unknown projection signal")
	ErrUnknownModel  = errors.New("unknown projection model")
)
