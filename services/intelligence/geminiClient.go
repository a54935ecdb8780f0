// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GeminiClient struct {
	client *genai.Client
	cfg    GatewayConfig
}

func NewGeminiClient(ctx context.Context, cfg GatewayConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

// Complete sends the conversation as a chat session. System messages become
// the model's system instruction; the final message must come from the user.
func (g *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	system, history, last, err := toGeminiContents(messages)
	if err != nil {
		return "", err
	}

	// A model handle is cheap and not safe to reconfigure concurrently.
	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(g.cfg.Temperature)
	model.SystemInstruction = system

	cs := model.StartChat()
	cs.History = history

	ctx, cancel := withDeadline(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func toGeminiContents(messages []Message) (*genai.Content, []*genai.Content, []genai.Part, error) {
	if len(messages) == 0 {
		return nil, nil, nil, errors.New("gemini: no messages to send")
	}
	lastMsg := messages[len(messages)-1]
	if lastMsg.Role != "user" {
		return nil, nil, nil, fmt.Errorf("gemini: last message must have role user, got %q", lastMsg.Role)
	}

	var system *genai.Content
	var history []*genai.Content
	for _, m := range messages[:len(messages)-1] {
		switch m.Role {
		case "system":
			if system == nil {
				system = &genai.Content{Role: "system"}
			}
			system.Parts = append(system.Parts, genai.Text(m.Content))
		case "assistant":
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}
	return system, history, []genai.Part{genai.Text(lastMsg.Content)}, nil
}

func classifyGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: gemini: %w", ErrRateLimited, err)
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return fmt.Errorf("%w: gemini: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: gemini generate: %w", ErrTransport, err)
}
