// File: database/repository/chatRepo/interface.go
package chatRepo

import (
	"context"
	"errors"

	"ragchat/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSessionNotFound is returned when a session ID was never seen.
var ErrSessionNotFound = errors.New("chat session not found")

// ChatRepository is the durable transcript of every conversation.
type ChatRepository interface {
	EnsureSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	AppendMessages(ctx context.Context, sessionRowID string, messages ...models.ChatMessage) error
	ListMessages(ctx context.Context, sessionRowID string) ([]models.ChatMessage, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoChatRepo struct {
	sessions *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepo constructs a new MongoDB ChatRepository.
func NewMongoChatRepo(db *mongo.Database) ChatRepository {
	return &mongoChatRepo{
		sessions: db.Collection("chat_sessions"),
		messages: db.Collection("chat_messages"),
	}
}
