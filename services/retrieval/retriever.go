// File: services/retrieval/retriever.go
package retrieval

import (
	"context"
	"fmt"

	"ragchat/database/repository/vectorRepo"
	"ragchat/models"
	ai "ragchat/services/intelligence"
)

const (
	DefaultTopK = 5
	MaxTopK     = 20
)

// Retriever embeds a question and asks the vector store for its nearest chunks.
type Retriever struct {
	embedder ai.Embedder
	vectors  vectorRepo.VectorRepository
}

func NewRetriever(embedder ai.Embedder, vectors vectorRepo.VectorRepository) *Retriever {
	return &Retriever{embedder: embedder, vectors: vectors}
}

// Retrieve returns up to topK chunks for query within namespace. A topK
// outside [1, MaxTopK] falls back to DefaultTopK.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, namespace string) ([]models.RetrievedChunk, error) {
	if topK < 1 || topK > MaxTopK {
		topK = DefaultTopK
	}
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := r.vectors.Query(ctx, vector, topK, namespace)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	return chunks, nil
}
