// File: services/intelligence/interface.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTransport covers network failures and per-call deadlines.
	ErrTransport = errors.New("language model transport failure")
	// ErrRateLimited is returned when the provider throttles the caller.
	ErrRateLimited = errors.New("language model rate limited")
	// ErrMalformedResponse is returned when the provider answers without usable text.
	ErrMalformedResponse = errors.New("language model returned a malformed response")
)

// Message is one entry of a conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Gateway sends a structured conversation to a hosted model and returns raw text.
type Gateway interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Embedder turns text into vectors for the vector store.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// GatewayConfig is built once from the application config and handed to the
// provider client at construction time.
type GatewayConfig struct {
	Provider    string        // "gemini" | "groq"
	Model       string        // hosted model name
	Timeout     time.Duration // per-call deadline
	Temperature float32
	APIKey      string
	BaseURL     string // only used by OpenAI-compatible providers
}

// NewGateway returns the client for cfg.Provider.
func NewGateway(ctx context.Context, cfg GatewayConfig) (Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key for provider %q", cfg.Provider)
	}
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiClient(ctx, cfg)
	case "groq":
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown language model provider %q", cfg.Provider)
	}
}

// withDeadline applies the configured per-call timeout.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
