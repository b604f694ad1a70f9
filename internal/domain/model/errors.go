package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the data model.
var (
	ErrMissingPlayerField = errors.New("missing player field")
	ErrIdentityCollision  = errors.New("identity collision")
	ErrUnknownPosition    = errors.New("unknown position")
	ErrInvalidQuota       = errors.New("invalid quota")
)

// FieldError reports the required attribute a player record lacks.
type FieldError struct {
	PlayerID int
	Field    string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("player %d: %s: %s", e.PlayerID, ErrMissingPlayerField, e.Field)
}

// Unwrap allows errors.Is(err, ErrMissingPlayerField).
func (e *FieldError) Unwrap() error { return ErrMissingPlayerField }

// CollisionError reports two records sharing one stable identifier.
type CollisionError struct {
	Kind string // "player", "team" or "roster"
	ID   int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s id %d appears more than once", ErrIdentityCollision, e.Kind, e.ID)
}

// Unwrap allows errors.Is(err, ErrIdentityCollision).
func (e *CollisionError) Unwrap() error { return ErrIdentityCollision }
