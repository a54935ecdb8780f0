// File: services/conversation/orchestrator.go
package conversation

import (
	"context"
	"errors"
	"fmt"

	"ragchat/models"
	"ragchat/services/booking"
	ai "ragchat/services/intelligence"
	"ragchat/services/retrieval"

	"go.uber.org/zap"
)

// Orchestrator drives one chat turn: classify, then book, answer or clarify,
// then record the turn.
type Orchestrator struct {
	classifier    BookingClassifier
	committer     BookingCommitter
	retriever     ContextRetriever
	answerer      ai.Gateway
	history       HistoryStore
	transcript    TranscriptStore
	historyWindow int
	logger        *zap.Logger
	locks         *sessionLocks
}

type Deps struct {
	Classifier    BookingClassifier
	Committer     BookingCommitter
	Retriever     ContextRetriever
	Answerer      ai.Gateway
	History       HistoryStore
	Transcript    TranscriptStore
	HistoryWindow int
	Logger        *zap.Logger
}

func NewOrchestrator(d Deps) *Orchestrator {
	if d.HistoryWindow <= 0 {
		d.HistoryWindow = 20
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Orchestrator{
		classifier:    d.Classifier,
		committer:     d.Committer,
		retriever:     d.Retriever,
		answerer:      d.Answerer,
		history:       d.History,
		transcript:    d.Transcript,
		historyWindow: d.HistoryWindow,
		logger:        d.Logger,
		locks:         newSessionLocks(),
	}
}

// HandleTurn runs one turn. Turns of the same session are serialized. The turn
// is recorded in history on every path, fatal ones included; a fatal failure
// is returned as *TurnError carrying the message the user was shown. A turn
// whose ctx ends while waiting for the session runs nothing and records nothing.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	release, err := o.locks.Lock(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("waiting for session %s: %w", req.SessionID, err)
	}
	defer release()

	logger := o.logger.With(zap.String("session_id", req.SessionID))

	session, err := o.transcript.EnsureSession(ctx, req.SessionID)
	if err != nil {
		logger.Error("Failed to ensure chat session", zap.Error(err))
	}

	resp, err := o.dispatch(ctx, logger, req)
	if err != nil {
		var turnErr *TurnError
		if !errors.As(err, &turnErr) {
			turnErr = &TurnError{Kind: KindAnswer, UserMessage: msgApology, Err: err}
		}
		logger.Error("Turn failed", zap.String("kind", string(turnErr.Kind)), zap.Error(turnErr.Err))
		o.record(ctx, logger, req, session, turnErr.UserMessage)
		return nil, turnErr
	}

	o.record(ctx, logger, req, session, resp.Answer)
	return resp, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, logger *zap.Logger, req TurnRequest) (*TurnResponse, error) {
	classification, err := o.classifier.Classify(ctx, req.Question)
	if err != nil {
		var parseErr *booking.BookingParseError
		if errors.As(err, &parseErr) {
			logger.Warn("Booking payload could not be parsed", zap.String("reason", parseErr.Reason))
			return clarify(msgParseFailure), nil
		}
		return nil, &TurnError{Kind: KindClassifier, UserMessage: msgApology, Err: err}
	}

	switch c := classification.(type) {
	case booking.Ready:
		return o.book(ctx, logger, req.SessionID, c)
	case booking.NoBooking:
		return o.answer(ctx, req)
	case booking.NeedsInfo:
		return clarify(c.Prompt), nil
	default:
		return nil, &TurnError{
			Kind:        KindClassifier,
			UserMessage: msgApology,
			Err:         fmt.Errorf("unexpected classification %T", classification),
		}
	}
}

func (o *Orchestrator) book(ctx context.Context, logger *zap.Logger, sessionID string, ready booking.Ready) (*TurnResponse, error) {
	validated, err := booking.ExtractAndValidate(ready)
	if err != nil {
		var (
			missing *booking.MissingFieldsError
			badTime *booking.UnparseableTimeError
			invalid *booking.InvalidFieldsError
		)
		switch {
		case errors.As(err, &missing):
			logger.Info("Booking fields missing", zap.Strings("fields", missing.Fields))
			return clarify(missingFieldsMessage(missing.Fields)), nil
		case errors.As(err, &badTime):
			logger.Info("Booking time unparseable", zap.String("time", badTime.Value))
			return clarify(msgTimeFormat), nil
		case errors.As(err, &invalid):
			logger.Info("Booking fields invalid", zap.Strings("fields", invalid.Fields))
			return clarify(invalidFieldsMessage(invalid.Fields)), nil
		default:
			return nil, err
		}
	}

	record, err := o.committer.Commit(ctx, validated)
	if err != nil {
		var perr *booking.PersistenceError
		if errors.As(err, &perr) && perr.Duplicate() {
			return nil, &TurnError{Kind: KindDuplicate, UserMessage: duplicateMessage(validated.Date, validated.Time), Err: err}
		}
		return nil, &TurnError{Kind: KindPersistence, UserMessage: msgNotPersisted, Err: err}
	}

	if err := o.history.SetLastBooking(ctx, sessionID, record); err != nil {
		logger.Warn("Failed to cache last booking", zap.String("booking_id", record.ID), zap.Error(err))
	}
	logger.Info("Interview booked", zap.String("booking_id", record.ID))
	return &TurnResponse{
		Answer:  confirmationMessage(record),
		Sources: []models.Source{},
		Outcome: OutcomeBooked,
		Booking: record,
	}, nil
}

func (o *Orchestrator) answer(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	history, err := o.history.Recent(ctx, req.SessionID, o.historyWindow)
	if err != nil {
		return nil, &TurnError{Kind: KindAnswer, UserMessage: msgApology, Err: fmt.Errorf("load history: %w", err)}
	}
	chunks, err := o.retriever.Retrieve(ctx, req.Question, req.TopK, req.Namespace)
	if err != nil {
		return nil, &TurnError{Kind: KindAnswer, UserMessage: msgApology, Err: err}
	}
	reply, err := o.answerer.Complete(ctx, retrieval.BuildPrompt(history, chunks, req.Question))
	if err != nil {
		return nil, &TurnError{Kind: KindAnswer, UserMessage: msgApology, Err: err}
	}
	return &TurnResponse{
		Answer:  reply,
		Sources: retrieval.ToSources(chunks),
		Outcome: OutcomeAnswered,
	}, nil
}

func clarify(message string) *TurnResponse {
	return &TurnResponse{Answer: message, Sources: []models.Source{}, Outcome: OutcomeClarified}
}

// record appends the user message and the reply to the history window and
// the transcript. Failures are logged; the turn result stands.
func (o *Orchestrator) record(ctx context.Context, logger *zap.Logger, req TurnRequest, session *models.ChatSession, reply string) {
	if err := o.history.Append(ctx, req.SessionID, models.RoleUser, req.Question); err != nil {
		logger.Error("Failed to append user message to history", zap.Error(err))
	} else if err := o.history.Append(ctx, req.SessionID, models.RoleAssistant, reply); err != nil {
		logger.Error("Failed to append assistant message to history", zap.Error(err))
	}

	if session == nil {
		return
	}
	err := o.transcript.AppendMessages(ctx, session.ID,
		models.ChatMessage{Sender: models.RoleUser, Message: req.Question},
		models.ChatMessage{Sender: models.RoleAssistant, Message: reply},
	)
	if err != nil {
		logger.Error("Failed to write transcript", zap.Error(err))
	}
}
