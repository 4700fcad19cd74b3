package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers bad or missing selections. Nothing has been written.
	ErrValidation = errors.New("invalid transfer request")
	// ErrMissingCurrentAssignment means the resident's present bed assignment
	// could not be found. Nothing has been written.
	ErrMissingCurrentAssignment = errors.New("current bed assignment not found")
	// ErrConcurrentModification means another transfer got to the source or
	// destination bed first.
	ErrConcurrentModification = errors.New("concurrent modification: bed assignment changed by another transfer")
	// ErrPartialTransfer is matched by a *TransferError that left the store
	// in a partially transferred state.
	ErrPartialTransfer = errors.New("transfer partially applied")
)

// TransferStep names the write in which a transfer failed.
type TransferStep string

const (
	StepPrepare         TransferStep = "prepare"
	StepCloseAssignment TransferStep = "close_assignment"
	StepOpenAssignment  TransferStep = "open_assignment"
	StepPropagateRoom   TransferStep = "propagate_room"
	StepCommit          TransferStep = "commit"
)

// TransferError reports a failed read or write while executing a transfer.
// Compensated is set when earlier writes were rolled back or undone. Partial
// is set when some writes remain applied.
type TransferError struct {
	Step            TransferStep
	Err             error
	Compensated     bool
	Partial         bool
	CompensationErr error
}

func (e *TransferError) Error() string {
	msg := fmt.Sprintf("bed transfer failed at %s: %v", e.Step, e.Err)
	if e.CompensationErr != nil {
		msg += fmt.Sprintf(" (undo failed: %v)", e.CompensationErr)
	}
	return msg
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func (e *TransferError) Is(target error) bool {
	return target == ErrPartialTransfer && e.Partial
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
