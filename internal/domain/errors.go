package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation malformed or out-of-range input
	ErrValidation = errors.New("validation error")

	// ErrCapacityExceeded not enough pool slots for the requested pax
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrConflict the time window is already occupied
	ErrConflict = errors.New("time window occupied")

	// ErrForbidden acting on a reservation the caller does not own
	ErrForbidden = errors.New("access denied")

	// ErrInvalidTransition the reservation status does not allow the action
	ErrInvalidTransition = errors.New("invalid state transition")

	ErrNotFound = errors.New("not found")

	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrSpaceNotFound       = fmt.Errorf("space %w", ErrNotFound)
	ErrSpaceTypeNotFound   = fmt.Errorf("space type %w", ErrNotFound)
	ErrCustomerNotFound    = fmt.Errorf("customer %w", ErrNotFound)
)

// CapacityExceededError carries the capacity left so clients can offer alternatives
type CapacityExceededError struct {
	Available int
	Requested int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded: requested %d, available %d", e.Requested, e.Available)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// StateTransitionError reports an action rejected by the current status
type StateTransitionError struct {
	From   ReservationStatus
	Action Action
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s reservation in status %s", e.Action, e.From)
}

func (e *StateTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewValidationError wraps a user-facing message into ErrValidation
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
