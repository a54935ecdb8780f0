package retrieval

import (
	"context"
	"errors"
	"testing"

	"ragchat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err   error
	query string
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, f.err
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.query = text
	return []float32{0.1, 0.2}, f.err
}

type fakeVectors struct {
	topK      int
	namespace string
	vector    []float32
	result    []models.RetrievedChunk
	err       error
}

func (f *fakeVectors) Upsert(context.Context, []models.VectorItem, string) error { return nil }
func (f *fakeVectors) DeleteByDocument(context.Context, string) error            { return nil }

func (f *fakeVectors) Query(_ context.Context, vector []float32, topK int, namespace string) ([]models.RetrievedChunk, error) {
	f.vector, f.topK, f.namespace = vector, topK, namespace
	return f.result, f.err
}

func TestRetriever_Retrieve(t *testing.T) {
	emb := &fakeEmbedder{}
	vec := &fakeVectors{result: []models.RetrievedChunk{{ID: "v1", Score: 0.9}}}
	r := NewRetriever(emb, vec)

	got, err := r.Retrieve(context.Background(), "what is the leave policy?", 3, "hr")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "what is the leave policy?", emb.query)
	assert.Equal(t, []float32{0.1, 0.2}, vec.vector)
	assert.Equal(t, 3, vec.topK)
	assert.Equal(t, "hr", vec.namespace)
}

func TestRetriever_TopKBounds(t *testing.T) {
	for _, topK := range []int{0, -1, 21} {
		vec := &fakeVectors{}
		_, err := NewRetriever(&fakeEmbedder{}, vec).Retrieve(context.Background(), "q", topK, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultTopK, vec.topK)
	}
}

func TestRetriever_Errors(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewRetriever(&fakeEmbedder{err: boom}, &fakeVectors{}).Retrieve(context.Background(), "q", 5, "")
	assert.ErrorIs(t, err, boom)

	_, err = NewRetriever(&fakeEmbedder{}, &fakeVectors{err: boom}).Retrieve(context.Background(), "q", 5, "")
	assert.ErrorIs(t, err, boom)
}
