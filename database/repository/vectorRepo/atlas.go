// File: database/repository/vectorRepo/atlas.go
package vectorRepo

import (
	"context"
	"fmt"

	"ragchat/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vectorDoc struct {
	ID        string                `bson:"id"`
	Namespace string                `bson:"namespace"`
	Values    []float32             `bson:"values"`
	Metadata  models.VectorMetadata `bson:"metadata"`
}

// Upsert replaces vectors by ID inside one namespace.
func (r *atlasVectorRepo) Upsert(ctx context.Context, items []models.VectorItem, namespace string) error {
	if len(items) == 0 {
		return nil
	}
	ns := namespaceOrDefault(namespace)
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		doc := vectorDoc{ID: item.ID, Namespace: ns, Values: item.Values, Metadata: item.Metadata}
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": item.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	if _, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("vector upsert: %w", err)
	}
	return nil
}

// Query returns the topK closest vectors in the namespace, best first.
func (r *atlasVectorRepo) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		topK = 5
	}
	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: r.index},
			{Key: "path", Value: "values"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: max(r.numCandidates, topK)},
			{Key: "limit", Value: topK},
			{Key: "filter", Value: bson.D{{Key: "namespace", Value: namespaceOrDefault(namespace)}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "id", Value: 1},
			{Key: "metadata", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.RetrievedChunk
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode vector matches: %w", err)
	}
	return out, nil
}

func (r *atlasVectorRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"metadata.document_id": documentID})
	return err
}
