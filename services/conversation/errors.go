// File: services/conversation/errors.go
package conversation

import "fmt"

// ErrorKind classifies a fatal turn failure.
type ErrorKind string

const (
	KindClassifier  ErrorKind = "classifier_unavailable"
	KindPersistence ErrorKind = "booking_not_persisted"
	KindDuplicate   ErrorKind = "booking_duplicate"
	KindAnswer      ErrorKind = "answer_unavailable"
)

// TurnError aborts a turn. UserMessage is what the user was shown and what was
// recorded in history; Err is the underlying cause and is only logged.
type TurnError struct {
	Kind        ErrorKind
	UserMessage string
	Err         error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn failed (%s): %v", e.Kind, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }
