package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newGroqTestServer(t *testing.T, handler http.HandlerFunc) *GroqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGroqClient(GatewayConfig{
		Provider: "groq",
		Model:    "llama-3.3-70b-versatile",
		Timeout:  2 * time.Second,
		APIKey:   "test-key",
		BaseURL:  srv.URL,
	})
}

func TestGroqClient_Complete(t *testing.T) {
	client := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"NO_BOOKING"},"finish_reason":"stop"}]}`))
	})

	got, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "rules"},
		{Role: "user", Content: "what is the refund policy?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NO_BOOKING", got)
}

func TestGroqClient_RateLimited(t *testing.T) {
	client := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_exceeded"}}`))
	})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGroqClient_NoChoices(t *testing.T) {
	client := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGroqClient_TransportFailure(t *testing.T) {
	client := newGroqTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestToOpenAIMessages_MapsRoles(t *testing.T) {
	got := toOpenAIMessages([]Message{
		{Role: "system", Content: "s"},
		{Role: "assistant", Content: "a"},
		{Role: "user", Content: "u"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "system", got[0].Role)
	assert.Equal(t, "assistant", got[1].Role)
	assert.Equal(t, "user", got[2].Role)
}

func TestToGeminiContents(t *testing.T) {
	system, history, last, err := toGeminiContents([]Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
		{Role: "system", Content: "Context:\n[0] file=a.txt chunk=0"},
		{Role: "user", Content: "what is in a.txt?"},
	})
	require.NoError(t, err)

	require.NotNil(t, system)
	assert.Equal(t, []genai.Part{genai.Text("be helpful"), genai.Text("Context:\n[0] file=a.txt chunk=0")}, system.Parts)

	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("what is in a.txt?")}, last)
}

func TestToGeminiContents_RequiresTrailingUserMessage(t *testing.T) {
	_, _, _, err := toGeminiContents(nil)
	assert.Error(t, err)

	_, _, _, err = toGeminiContents([]Message{{Role: "system", Content: "x"}})
	assert.Error(t, err)
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"http 429", &googleapi.Error{Code: http.StatusTooManyRequests}, ErrRateLimited},
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "quota"), ErrRateLimited},
		{"deadline", context.DeadlineExceeded, ErrTransport},
		{"other", errors.New("boom"), ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyGeminiError(tt.err), tt.want)
		})
	}
}

func TestNewGateway_Validation(t *testing.T) {
	_, err := NewGateway(context.Background(), GatewayConfig{Provider: "groq"})
	assert.Error(t, err)

	_, err = NewGateway(context.Background(), GatewayConfig{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)

	gw, err := NewGateway(context.Background(), GatewayConfig{Provider: "groq", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &GroqClient{}, gw)
}
