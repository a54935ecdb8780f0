// File: services/conversation/interface.go
package conversation

import (
	"context"

	"ragchat/models"
	"ragchat/services/booking"
)

// BookingClassifier tags one utterance.
type BookingClassifier interface {
	Classify(ctx context.Context, utterance string) (booking.Classification, error)
}

// BookingCommitter persists a validated booking.
type BookingCommitter interface {
	Commit(ctx context.Context, validated booking.ValidatedBooking) (*models.BookingRecord, error)
}

// ContextRetriever finds the chunks that ground an answer.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topK int, namespace string) ([]models.RetrievedChunk, error)
}

// HistoryStore is the bounded per-session window fed back to the model.
type HistoryStore interface {
	Append(ctx context.Context, sessionID, role, content string) error
	Recent(ctx context.Context, sessionID string, limit int) ([]models.HistoryMessage, error)
	SetLastBooking(ctx context.Context, sessionID string, record *models.BookingRecord) error
}

// TranscriptStore is the durable log of every turn.
type TranscriptStore interface {
	EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AppendMessages(ctx context.Context, sessionRowID string, messages ...models.ChatMessage) error
}

// TurnRequest is one user message within a session.
type TurnRequest struct {
	SessionID string
	Question  string
	TopK      int
	Namespace string
}

// Outcome names the terminal branch a turn took.
type Outcome string

const (
	OutcomeBooked    Outcome = "booked"
	OutcomeClarified Outcome = "clarified"
	OutcomeAnswered  Outcome = "answered"
)

// TurnResponse is what the user sees for a successful turn.
type TurnResponse struct {
	Answer  string
	Sources []models.Source
	Outcome Outcome
	Booking *models.BookingRecord // set only when Outcome is OutcomeBooked
}
