package booking

import (
	"errors"
	"fmt"
	"strings"

	"ragchat/database/repository/bookingRepo"
)

// ErrClassifierTransport wraps any gateway failure during classification.
var ErrClassifierTransport = errors.New("booking classifier transport failure")

// BookingParseError is returned when the model used the ready marker but the
// payload could not be read, or when the reply matches no known shape.
type BookingParseError struct {
	Reason string
	Raw    string
}

func (e *BookingParseError) Error() string {
	return fmt.Sprintf("booking parse error: %s", e.Reason)
}

// MissingFieldsError lists the required fields that were empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing booking fields: %s", strings.Join(e.Fields, ", "))
}

// UnparseableTimeError is returned when the time is not HH:MM:SS even after
// the single HH:MM normalization.
type UnparseableTimeError struct {
	Value string
}

func (e *UnparseableTimeError) Error() string {
	return fmt.Sprintf("unparseable booking time %q", e.Value)
}

// InvalidFieldsError lists present fields that failed validation when the
// failure is not limited to the time field.
type InvalidFieldsError struct {
	Fields []string
}

func (e *InvalidFieldsError) Error() string {
	return fmt.Sprintf("invalid booking fields: %s", strings.Join(e.Fields, ", "))
}

// PersistenceError wraps a failure of the booking store. No record exists.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("booking not persisted: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Duplicate reports whether the store rejected the booking as already held.
func (e *PersistenceError) Duplicate() bool {
	return errors.Is(e.Err, bookingRepo.ErrDuplicateBooking)
}
