package repository

import "errors"

// Sentinel kinds for history and roster errors.
var (
	ErrNotFound      = errors.New("no recorded run")
	ErrInvalidRoster = errors.New("invalid roster file")
	ErrLedger        = errors.New("history ledger failure")
)
