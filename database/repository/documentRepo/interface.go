// File: database/repository/documentRepo/interface.go
package documentRepo

import (
	"context"
	"errors"

	"ragchat/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc models.Document) (*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	SetStatus(ctx context.Context, id, status string) error
	InsertChunks(ctx context.Context, chunks []models.Chunk) error
	GetChunks(ctx context.Context, documentID string) ([]models.Chunk, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoDocumentRepo struct {
	docs   *mongo.Collection
	chunks *mongo.Collection
}

// NewMongoDocumentRepo constructs a new MongoDB DocumentRepository.
func NewMongoDocumentRepo(db *mongo.Database) DocumentRepository {
	return &mongoDocumentRepo{
		docs:   db.Collection("documents"),
		chunks: db.Collection("chunks"),
	}
}
