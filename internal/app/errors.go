package service

import "errors"

// Sentinel errors for the service.
var (
	ErrNoSource = errors.New("no snapshot source configured")
	ErrNoLedger = errors.New("no history ledger configured")
	ErrNoPlan   = errors.New("no plan available yet")
)
