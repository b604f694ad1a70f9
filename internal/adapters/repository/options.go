package repository

import (
	"os"

	"github.com/okian/fplsquad/pkg/logger"
)

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for append diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Ledger) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFileMode sets the permissions of a newly created ledger file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Ledger) {
		if mode != 0 {
			s.mode = mode
		}
	}
}
