package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinels for errors.Is; the typed errors below unwrap to them.
var (
	ErrInvalidStatus       = errors.New("invalid lead status")
	ErrUnknownSeller       = errors.New("unknown seller")
	ErrLeadNotFound        = errors.New("lead not found")
	ErrConcurrencyConflict = errors.New("lead was modified concurrently")
)

// InvalidStatusError is returned for a status outside the registry.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid lead status %q", e.Status)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// UnknownSellerError is returned when an assignment references a seller
// that is not in the directory.
type UnknownSellerError struct {
	SellerID uuid.UUID
}

func (e *UnknownSellerError) Error() string {
	return fmt.Sprintf("unknown seller %s", e.SellerID)
}

func (e *UnknownSellerError) Unwrap() error { return ErrUnknownSeller }

// LeadNotFoundError is returned when an id does not resolve.
type LeadNotFoundError struct {
	LeadID uuid.UUID
}

func (e *LeadNotFoundError) Error() string {
	return fmt.Sprintf("lead %s not found", e.LeadID)
}

func (e *LeadNotFoundError) Unwrap() error { return ErrLeadNotFound }

// ConcurrencyConflictError is returned by a commit whose expected version
// no longer matches the stored record. Callers re-fetch and retry.
type ConcurrencyConflictError struct {
	LeadID uuid.UUID
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("lead %s was modified concurrently", e.LeadID)
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrConcurrencyConflict }
