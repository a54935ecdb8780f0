// FILE: database/repository/documentRepo/indexes.go
package documentRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the documents and chunks collections.
func (r *mongoDocumentRepo) EnsureIndexes(ctx context.Context) error {
	if _, err := r.docs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "filename", Value: 1}},
			Options: options.Index().SetName("filename_idx"),
		},
		{
			Keys:    bson.D{{Key: "uploaded_at", Value: -1}},
			Options: options.Index().SetName("uploaded_at_idx"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create document indexes: %w", err)
	}

	if _, err := r.chunks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "document_id", Value: 1}, {Key: "chunk_index", Value: 1}},
			Options: options.Index().SetName("document_chunk_idx"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create chunk indexes: %w", err)
	}
	return nil
}
