// File: database/repository/documentRepo/crud.go
package documentRepo

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

// CreateDocument inserts a document row, assigning ID and upload time when unset.
func (r *mongoDocumentRepo) CreateDocument(ctx context.Context, doc models.Document) (*models.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = models.DocumentPending
	}
	if _, err := r.docs.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoDocumentRepo) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := r.docs.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *mongoDocumentRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.docs.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// InsertChunks stores chunk rows; IDs double as vector IDs.
func (r *mongoDocumentRepo) InsertChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(chunks))
	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.New().String()
		}
		if chunks[i].CreatedAt.IsZero() {
			chunks[i].CreatedAt = now
		}
		docs[i] = chunks[i]
	}
	_, err := r.chunks.InsertMany(ctx, docs)
	return err
}

// GetChunks returns a document's chunks in chunk order.
func (r *mongoDocumentRepo) GetChunks(ctx context.Context, documentID string) ([]models.Chunk, error) {
	opts := options.Find().SetSort(bson.D{{Key: "chunk_index", Value: 1}})
	cursor, err := r.chunks.Find(ctx, bson.M{"document_id": documentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chunks []models.Chunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}
