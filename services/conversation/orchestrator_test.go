package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ragchat/database/repository/bookingRepo"
	"ragchat/models"
	"ragchat/services/booking"
	ai "ragchat/services/intelligence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedGateway returns a fixed reply. It drives both the real classifier
// and the answer path.
type scriptedGateway struct {
	reply    string
	err      error
	received [][]ai.Message
}

func (g *scriptedGateway) Complete(_ context.Context, messages []ai.Message) (string, error) {
	g.received = append(g.received, messages)
	return g.reply, g.err
}

type fakeBookingRepo struct {
	bookingRepo.BookingRepository
	err     error
	created []models.BookingRecord
}

func (f *fakeBookingRepo) Create(_ context.Context, name, email, date, clock string) (*models.BookingRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec := models.BookingRecord{ID: "booking-1", Name: name, Email: email, Date: date, Time: clock, CreatedAt: time.Now()}
	f.created = append(f.created, rec)
	return &rec, nil
}

type fakeHistory struct {
	mu          sync.Mutex
	messages    map[string][]models.HistoryMessage
	lastBooking map[string]*models.BookingRecord
	appendErr   error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{
		messages:    map[string][]models.HistoryMessage{},
		lastBooking: map[string]*models.BookingRecord{},
	}
}

func (f *fakeHistory) Append(_ context.Context, sessionID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages[sessionID] = append(f.messages[sessionID], models.HistoryMessage{Role: role, Content: content})
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, sessionID string, _ int) ([]models.HistoryMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.HistoryMessage(nil), f.messages[sessionID]...), nil
}

func (f *fakeHistory) SetLastBooking(_ context.Context, sessionID string, record *models.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastBooking[sessionID] = record
	return nil
}

type fakeTranscript struct {
	mu         sync.Mutex
	sessionErr error
	messages   []models.ChatMessage
}

func (f *fakeTranscript) EnsureSession(_ context.Context, sessionID string) (*models.ChatSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &models.ChatSession{ID: "row-" + sessionID, SessionID: sessionID}, nil
}

func (f *fakeTranscript) AppendMessages(_ context.Context, sessionRowID string, messages ...models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range messages {
		m.SessionID = sessionRowID
		f.messages = append(f.messages, m)
	}
	return nil
}

type fakeRetriever struct {
	chunks []models.RetrievedChunk
	err    error
}

func (f *fakeRetriever) Retrieve(context.Context, string, int, string) ([]models.RetrievedChunk, error) {
	return f.chunks, f.err
}

type harness struct {
	classifierLLM *scriptedGateway
	answerLLM     *scriptedGateway
	repo          *fakeBookingRepo
	history       *fakeHistory
	transcript    *fakeTranscript
	retriever     *fakeRetriever
	orchestrator  *Orchestrator
}

func newHarness(classifierReply string) *harness {
	h := &harness{
		classifierLLM: &scriptedGateway{reply: classifierReply},
		answerLLM:     &scriptedGateway{reply: "Leave is 21 days."},
		repo:          &fakeBookingRepo{},
		history:       newFakeHistory(),
		transcript:    &fakeTranscript{},
		retriever: &fakeRetriever{chunks: []models.RetrievedChunk{
			{ID: "v1", Score: 0.9, Metadata: models.VectorMetadata{Filename: "handbook.pdf", ChunkIndex: 4, Text: "Annual leave is 21 days."}},
		}},
	}
	logger := zap.NewNop()
	h.orchestrator = NewOrchestrator(Deps{
		Classifier: booking.NewClassifier(h.classifierLLM, logger),
		Committer:  booking.NewCommitter(h.repo, logger),
		Retriever:  h.retriever,
		Answerer:   h.answerLLM,
		History:    h.history,
		Transcript: h.transcript,
		Logger:     logger,
	})
	return h
}

func (h *harness) turn(t *testing.T, question string) (*TurnResponse, error) {
	t.Helper()
	return h.orchestrator.HandleTurn(context.Background(), TurnRequest{SessionID: "s-1", Question: question})
}

func (h *harness) assertRecorded(t *testing.T, question, reply string) {
	t.Helper()
	assert.Equal(t, []models.HistoryMessage{
		{Role: models.RoleUser, Content: question},
		{Role: models.RoleAssistant, Content: reply},
	}, h.history.messages["s-1"])
	require.Len(t, h.transcript.messages, 2)
	assert.Equal(t, "row-s-1", h.transcript.messages[0].SessionID)
	assert.Equal(t, question, h.transcript.messages[0].Message)
	assert.Equal(t, reply, h.transcript.messages[1].Message)
}

func TestHandleTurn_BookingConfirmed(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": "ann@x.com", "date": "2025-03-01", "time": "15:00:00"}`)

	resp, err := h.turn(t, "Book me, Ann, ann@x.com, March 1st 3pm")
	require.NoError(t, err)

	assert.Equal(t, OutcomeBooked, resp.Outcome)
	assert.Contains(t, resp.Answer, "Ann")
	assert.Contains(t, resp.Answer, "2025-03-01")
	assert.Contains(t, resp.Answer, "15:00:00")
	assert.Contains(t, resp.Answer, "booking-1")
	require.Len(t, h.repo.created, 1)
	assert.Equal(t, "booking-1", h.history.lastBooking["s-1"].ID)
	assert.Empty(t, h.answerLLM.received)
	h.assertRecorded(t, "Book me, Ann, ann@x.com, March 1st 3pm", resp.Answer)
}

func TestHandleTurn_NormalizesShortTime(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": "ann@x.com", "date": "2025-03-01", "time": "15:00"}`)

	resp, err := h.turn(t, "book")
	require.NoError(t, err)
	assert.Equal(t, OutcomeBooked, resp.Outcome)
	require.Len(t, h.repo.created, 1)
	assert.Equal(t, "15:00:00", h.repo.created[0].Time)
}

func TestHandleTurn_MissingName(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "", "email": "ann@x.com", "date": "2025-03-01", "time": "15:00:00"}`)

	resp, err := h.turn(t, "book an interview for ann@x.com")
	require.NoError(t, err)

	assert.Equal(t, OutcomeClarified, resp.Outcome)
	assert.Equal(t, "To book your interview I still need your name.", resp.Answer)
	assert.Empty(t, h.repo.created)
	h.assertRecorded(t, "book an interview for ann@x.com", resp.Answer)
}

func TestHandleTurn_MalformedPayload(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": `)

	resp, err := h.turn(t, "book me")
	require.NoError(t, err)

	assert.Equal(t, OutcomeClarified, resp.Outcome)
	assert.Equal(t, msgParseFailure, resp.Answer)
	assert.Empty(t, h.repo.created)
	h.assertRecorded(t, "book me", msgParseFailure)
}

func TestHandleTurn_UnparseableTime(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": "ann@x.com", "date": "2025-03-01", "time": "3pm"}`)

	resp, err := h.turn(t, "book me at 3pm")
	require.NoError(t, err)
	assert.Equal(t, msgTimeFormat, resp.Answer)
	assert.Empty(t, h.repo.created)
}

func TestHandleTurn_InvalidEmail(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": "ann-at-x", "date": "2025-03-01", "time": "15:00:00"}`)

	resp, err := h.turn(t, "book me")
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "email")
	assert.Empty(t, h.repo.created)
}

func TestHandleTurn_PersistenceFailure(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": "ann@x.com", "date": "2025-03-01", "time": "15:00:00"}`)
	h.repo.err = errors.New("connection refused")

	resp, err := h.turn(t, "book me")
	assert.Nil(t, resp)

	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, KindPersistence, turnErr.Kind)
	assert.Contains(t, turnErr.UserMessage, "NOT confirmed")
	var perr *booking.PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.Nil(t, h.history.lastBooking["s-1"])
	h.assertRecorded(t, "book me", turnErr.UserMessage)
}

func TestHandleTurn_Duplicate(t *testing.T) {
	h := newHarness(`BOOKING_READY: {"name": "Ann", "email": "ann@x.com", "date": "2025-03-01", "time": "15:00:00"}`)
	h.repo.err = bookingRepo.ErrDuplicateBooking

	_, err := h.turn(t, "book me")
	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, KindDuplicate, turnErr.Kind)
	assert.Contains(t, turnErr.UserMessage, "NOT confirmed")
	assert.Contains(t, turnErr.UserMessage, "2025-03-01")
}

func TestHandleTurn_NoBookingAnswers(t *testing.T) {
	h := newHarness("NO_BOOKING")
	h.history.messages["s-1"] = []models.HistoryMessage{{Role: "user", Content: "earlier"}, {Role: "assistant", Content: "reply"}}

	resp, err := h.turn(t, "How much leave do I get?")
	require.NoError(t, err)

	assert.Equal(t, OutcomeAnswered, resp.Outcome)
	assert.Equal(t, "Leave is 21 days.", resp.Answer)
	assert.Equal(t, []models.Source{{ID: "v1", Score: 0.9, Filename: "handbook.pdf", ChunkIndex: 4}}, resp.Sources)
	assert.Empty(t, h.repo.created)

	require.Len(t, h.answerLLM.received, 1)
	prompt := h.answerLLM.received[0]
	assert.Equal(t, ai.Message{Role: "user", Content: "earlier"}, prompt[1])
	assert.Equal(t, ai.Message{Role: "user", Content: "How much leave do I get?"}, prompt[len(prompt)-1])
	assert.Len(t, h.history.messages["s-1"], 4)
}

func TestHandleTurn_NeedsInfoRelayedVerbatim(t *testing.T) {
	h := newHarness("Please provide your email.")

	resp, err := h.turn(t, "I'd like an interview tomorrow at 3pm, I'm Ann")
	require.NoError(t, err)
	assert.Equal(t, OutcomeClarified, resp.Outcome)
	assert.Equal(t, "Please provide your email.", resp.Answer)
	assert.Empty(t, h.repo.created)
	h.assertRecorded(t, "I'd like an interview tomorrow at 3pm, I'm Ann", "Please provide your email.")
}

func TestHandleTurn_ClassifierTransportFailure(t *testing.T) {
	h := newHarness("")
	h.classifierLLM.err = ai.ErrTransport

	resp, err := h.turn(t, "hello")
	assert.Nil(t, resp)
	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, KindClassifier, turnErr.Kind)
	assert.ErrorIs(t, err, booking.ErrClassifierTransport)
	assert.Empty(t, h.answerLLM.received)
	h.assertRecorded(t, "hello", msgApology)
}

func TestHandleTurn_AnswerFailure(t *testing.T) {
	h := newHarness("NO_BOOKING")
	h.retriever.err = errors.New("index unavailable")

	_, err := h.turn(t, "question")
	var turnErr *TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, KindAnswer, turnErr.Kind)
	h.assertRecorded(t, "question", msgApology)
}

func TestHandleTurn_RecordingFailuresAreNotFatal(t *testing.T) {
	h := newHarness("Please provide your email.")
	h.history.appendErr = errors.New("redis down")
	h.transcript.sessionErr = errors.New("mongo down")

	resp, err := h.turn(t, "book")
	require.NoError(t, err)
	assert.Equal(t, "Please provide your email.", resp.Answer)
	assert.Empty(t, h.transcript.messages)
}

func TestHandleTurn_GivesUpWaitingForBusySession(t *testing.T) {
	h := newHarness("NO_BOOKING")
	release, err := h.orchestrator.locks.Lock(context.Background(), "s-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	resp, err := h.orchestrator.HandleTurn(ctx, TurnRequest{SessionID: "s-1", Question: "question"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var turnErr *TurnError
	assert.False(t, errors.As(err, &turnErr))
	assert.Empty(t, h.classifierLLM.received)
	assert.Empty(t, h.history.messages["s-1"])
	assert.Empty(t, h.transcript.messages)
}
