// File: database/repository/chatRepo/crud.go
package chatRepo

import (
	"context"
	"errors"
	"time"

	"ragchat/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureSession returns the session row for sessionID, creating it on first use.
func (r *mongoChatRepo) EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"id":         uuid.New().String(),
		"session_id": sessionID,
		"created_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var session models.ChatSession
	if err := r.sessions.FindOneAndUpdate(ctx, bson.M{"session_id": sessionID}, update, opts).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession looks up the session row without creating it.
func (r *mongoChatRepo) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.sessions.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendMessages stores messages in the given order.
func (r *mongoChatRepo) AppendMessages(ctx context.Context, sessionRowID string, messages ...models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	docs := stampMessages(sessionRowID, time.Now().UTC(), messages)
	_, err := r.messages.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// stampMessages assigns IDs, the session row and a strictly increasing seq.
// Messages written in one call share a timestamp; seq orders them.
func stampMessages(sessionRowID string, now time.Time, messages []models.ChatMessage) []interface{} {
	base := now.UnixNano()
	docs := make([]interface{}, len(messages))
	for i, m := range messages {
		m.ID = uuid.New().String()
		m.SessionID = sessionRowID
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		m.Seq = base + int64(i)
		docs[i] = m
	}
	return docs
}

// ListMessages returns the transcript oldest first.
func (r *mongoChatRepo) ListMessages(ctx context.Context, sessionRowID string) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "seq", Value: 1}})
	cursor, err := r.messages.Find(ctx, bson.M{"session_id": sessionRowID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.ChatMessage
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the chat_sessions and chat_messages indexes.
func (r *mongoChatRepo) EnsureIndexes(ctx context.Context) error {
	if _, err := r.sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_session_id"),
	}); err != nil {
		return err
	}
	_, err := r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: 1}, {Key: "seq", Value: 1}},
		Options: options.Index().SetName("session_timestamp_seq_idx"),
	})
	return err
}
