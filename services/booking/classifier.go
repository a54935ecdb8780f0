package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ai "ragchat/services/intelligence"

	"go.uber.org/zap"
)

const (
	readyMarker     = "BOOKING_READY:"
	noBookingMarker = "NO_BOOKING"
)

const extractionPromptTemplate = `Detect if the user wants to book an interview.
If yes, extract name, email, date, and time. The time must be in 24-hour HH:MM:SS format (e.g., 15:00:00).
If the date and time are not in YYYY-MM-DD and HH:MM:SS format, normalize them. For example, for "tomorrow 3pm" the date becomes today's date + 1 day and the time becomes 15:00:00.
Today's date is %s.
Rules:
- If all fields are present and valid, respond exactly:
  BOOKING_READY: {"name": "...", "email": "...", "date": "YYYY-MM-DD", "time": "HH:MM:SS"}
- If booking intent is present but any field is missing or ambiguous, ask a single, clear question for the missing piece(s).
  Example: "Please provide your email."
- If there is no booking intent, respond exactly: NO_BOOKING

Do not do anything else; follow only the rules above.`

// Classifier decides whether an utterance is a booking request.
type Classifier struct {
	gateway ai.Gateway
	logger  *zap.Logger
	now     func() time.Time
}

func NewClassifier(gateway ai.Gateway, logger *zap.Logger) *Classifier {
	return &Classifier{gateway: gateway, logger: logger, now: time.Now}
}

// ExtractionPrompt returns the instruction sent with every utterance, with
// today's date embedded so relative dates resolve deterministically.
func ExtractionPrompt(today time.Time) string {
	return fmt.Sprintf(extractionPromptTemplate, today.Format("2006-01-02"))
}

// Classify makes one gateway call. Gateway failures wrap ErrClassifierTransport;
// unreadable replies come back as *BookingParseError.
func (c *Classifier) Classify(ctx context.Context, utterance string) (Classification, error) {
	messages := []ai.Message{
		{Role: "system", Content: ExtractionPrompt(c.now())},
		{Role: "user", Content: utterance},
	}
	reply, err := c.gateway.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClassifierTransport, err)
	}

	result, err := ParseClassification(reply)
	if err != nil {
		c.logger.Warn("Unrecognized classifier reply", zap.Error(err), zap.String("reply", reply))
		return nil, err
	}
	return result, nil
}

// ParseClassification applies the marker rules in order: ready marker with a
// JSON object, a reply starting with the no-booking marker, anything else as
// a clarifying question. An empty reply matches nothing. A clarifying
// question is relayed exactly as the model wrote it.
func ParseClassification(reply string) (Classification, error) {
	if idx := strings.Index(reply, readyMarker); idx >= 0 {
		payload := reply[idx+len(readyMarker):]
		open := strings.Index(payload, "{")
		if open < 0 {
			return nil, &BookingParseError{Reason: "no JSON object after ready marker", Raw: reply}
		}
		var ready Ready
		if err := json.NewDecoder(strings.NewReader(payload[open:])).Decode(&ready); err != nil {
			return nil, &BookingParseError{Reason: "invalid JSON after ready marker: " + err.Error(), Raw: reply}
		}
		return ready, nil
	}

	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, noBookingMarker) {
		return NoBooking{}, nil
	}
	if trimmed == "" {
		return nil, &BookingParseError{Reason: "empty reply", Raw: reply}
	}
	return NeedsInfo{Prompt: reply}, nil
}
