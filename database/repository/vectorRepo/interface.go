// File: database/repository/vectorRepo/interface.go
package vectorRepo

import (
	"context"

	"ragchat/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultNamespace is used whenever a caller does not name one.
const DefaultNamespace = "__default__"

// VectorRepository stores embeddings and answers nearest-neighbour queries.
type VectorRepository interface {
	Upsert(ctx context.Context, items []models.VectorItem, namespace string) error
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]models.RetrievedChunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// atlasVectorRepo uses MongoDB Atlas Vector Search over the "vectors" collection.
// The search index must map "values" as a vector field and "namespace" as a filter.
type atlasVectorRepo struct {
	coll          *mongo.Collection
	index         string
	numCandidates int
}

func NewAtlasVectorRepo(db *mongo.Database, index string, numCandidates int) VectorRepository {
	return &atlasVectorRepo{
		coll:          db.Collection("vectors"),
		index:         index,
		numCandidates: numCandidates,
	}
}

func namespaceOrDefault(ns string) string {
	if ns == "" {
		return DefaultNamespace
	}
	return ns
}
