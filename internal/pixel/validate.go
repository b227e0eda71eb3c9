package pixel

import (
	"errors"
	"fmt"
)

// ErrNilBuffer reports a missing input buffer.
var ErrNilBuffer = errors.New("buffer must not be nil")

// ValidationError reports a scalar parameter outside its allowed range.
// The rendered message names the rejected function, the parameter, the
// inclusive range and the offending value, so callers can surface it
// verbatim.
type ValidationError struct {
	Fn    string
	Param string
	Value int
	Min   int
	Max   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s must be in range [%d, %d], got %d",
		e.Fn, e.Param, e.Min, e.Max, e.Value)
}

// ValidateRange checks value against an inclusive range on behalf of fn.
func ValidateRange(fn, param string, value, min, max int) error {
	if value < min || value > max {
		return &ValidationError{Fn: fn, Param: param, Value: value, Min: min, Max: max}
	}
	return nil
}

// Validate reports whether b is a well-formed buffer ready for processing.
// fn names the calling operation for error context.
func Validate(fn string, b *Buffer) error {
	if b == nil {
		return fmt.Errorf("%s: %w", fn, ErrNilBuffer)
	}
	if err := validateDimensions(fn, b.Width, b.Height); err != nil {
		return err
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return newLengthError(fn, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

func validateDimensions(fn string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%s: dimensions must be positive, got %dx%d", fn, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%s: dimensions %dx%d exceed maximum %d", fn, width, height, MaxDimension)
	}
	return nil
}

func newLengthError(fn string, got, width, height int) error {
	return fmt.Errorf("%s: pixel data length %d does not match %dx%d buffer (want %d)",
		fn, got, width, height, width*height*Channels)
}
