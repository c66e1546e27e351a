package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSampleNotFound  = fmt.Errorf("%w: sample", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrNoChart         = fmt.Errorf("%w: renderable chart", ErrNotFound)

	// Input errors
	ErrIndexOutOfRange  = errors.New("sample index out of range")
	ErrUnknownCriterion = errors.New("unknown criterion")
	ErrUnknownTab       = errors.New("unknown diagnostic tab")
	ErrEmptyCatalog     = errors.New("sample catalog is empty")

	// Interaction guards
	ErrControlsLocked    = errors.New("controls are locked while testing")
	ErrTestInProgress    = errors.New("model test already in progress")
	ErrRetrainInProgress = errors.New("retraining already in progress")
)

// Error constructors with context
func NewIndexError(index, length int) error {
	return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, length)
}

func NewCriterionError(key string) error {
	return fmt.Errorf("%w: %q", ErrUnknownCriterion, key)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSilentNoOp reports errors the viewer swallows instead of surfacing to the user.
func IsSilentNoOp(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrControlsLocked) ||
		errors.Is(err, ErrTestInProgress) ||
		errors.Is(err, ErrRetrainInProgress) ||
		errors.Is(err, ErrNoChart)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrUnknownCriterion) ||
		errors.Is(err, ErrUnknownTab)
}
