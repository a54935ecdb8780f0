// File: services/retrieval/prompt.go
package retrieval

import (
	"fmt"
	"strings"

	"ragchat/models"
	ai "ragchat/services/intelligence"
)

const answerSystemPrompt = "You are a helpful assistant. Use the provided context to answer the user. " +
	"If the answer is not in the context, say you are not sure."

// BuildPrompt assembles the answer request: system prompt, prior history,
// the numbered context block when there is one, and the question last.
func BuildPrompt(history []models.HistoryMessage, chunks []models.RetrievedChunk, question string) []ai.Message {
	messages := make([]ai.Message, 0, len(history)+3)
	messages = append(messages, ai.Message{Role: models.RoleSystem, Content: answerSystemPrompt})
	for _, h := range history {
		messages = append(messages, ai.Message{Role: h.Role, Content: h.Content})
	}
	if block := contextBlock(chunks); block != "" {
		messages = append(messages, ai.Message{Role: models.RoleSystem, Content: "Context:\n" + block})
	}
	return append(messages, ai.Message{Role: models.RoleUser, Content: question})
}

func contextBlock(chunks []models.RetrievedChunk) string {
	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		entry := fmt.Sprintf("[%d] file=%s chunk=%d\n%s", i, c.Metadata.Filename, c.Metadata.ChunkIndex, c.Metadata.Text)
		parts = append(parts, strings.TrimSpace(entry))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// ToSources strips chunk text for the client response.
func ToSources(chunks []models.RetrievedChunk) []models.Source {
	sources := make([]models.Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, models.Source{
			ID:         c.ID,
			Score:      c.Score,
			Filename:   c.Metadata.Filename,
			ChunkIndex: c.Metadata.ChunkIndex,
		})
	}
	return sources
}
