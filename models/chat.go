package models

import "time"

// Message roles understood by the language model gateway and the history cache.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryMessage is one entry of the bounded per-session history window.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is the durable row created the first time a session ID is seen.
type ChatSession struct {
	ID        string    `bson:"id" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ChatMessage is a durable transcript entry.
type ChatMessage struct {
	ID        string    `bson:"id" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"` // ChatSession.ID
	Sender    string    `bson:"sender" json:"sender"`         // "user" | "assistant"
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Seq       int64     `bson:"seq" json:"seq"` // insertion order; BSON dates only keep milliseconds
}

// ChatQuery is the payload coming from the frontend into /api/chat/query.
type ChatQuery struct {
	SessionID string `json:"session_id" binding:"required,min=3"`
	Question  string `json:"question" binding:"required,min=1"`
	TopK      int    `json:"top_k" binding:"omitempty,min=1,max=20"`
	Namespace string `json:"namespace,omitempty"`
}

// ChatAnswer is what the chat handler returns to the frontend.
type ChatAnswer struct {
	SessionID string   `json:"session_id"`
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	Error     string   `json:"error,omitempty"`
}
