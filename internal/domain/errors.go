package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrProvider indicates the external content provider could not be
	// reached or returned an error. Nothing is committed when this occurs.
	ErrProvider = errors.New("provider unavailable")
)

// ConflictError reports a duplicate sibling name with details about the
// existing node so callers can surface it.
type ConflictError struct {
	Message      string
	ResourceType string // "folder" or "subscription"
	ResourceID   string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CycleError reports a move that would make a node its own ancestor.
type CycleError struct {
	NodeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("moving node %s would create a parenting cycle", e.NodeID)
}

// Is allows errors.Is() to match against ErrValidation
func (e *CycleError) Is(target error) bool {
	return target == ErrValidation
}
