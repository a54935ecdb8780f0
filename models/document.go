package models

import "time"

// Document is an uploaded file that has been parsed and chunked.
type Document struct {
	ID         string       `bson:"id" json:"id"`
	Filename   string       `bson:"filename" json:"filename"`
	Filetype   string       `bson:"filetype" json:"filetype"` // "pdf" | "txt"
	Source     string       `bson:"source" json:"source"`     // e.g. "upload"
	Namespace  string       `bson:"namespace" json:"namespace"`
	Meta       DocumentMeta `bson:"meta" json:"meta"`
	Status     string       `bson:"status" json:"status"` // "pending" | "indexed" | "failed"
	UploadedAt time.Time    `bson:"uploaded_at" json:"uploaded_at"`
}

// DocumentMeta records how a document was chunked.
type DocumentMeta struct {
	Chunker      string `bson:"chunker" json:"chunker"`
	ChunkSize    int    `bson:"chunk_size" json:"chunk_size"`
	ChunkOverlap int    `bson:"chunk_overlap" json:"chunk_overlap"`
}

// Document statuses.
const (
	DocumentPending = "pending"
	DocumentIndexed = "indexed"
	DocumentFailed  = "failed"
)

// Chunk is a piece of a document's text.
type Chunk struct {
	ID         string    `bson:"id" json:"id"` // also the vector ID
	DocumentID string    `bson:"document_id" json:"document_id"`
	ChunkIndex int       `bson:"chunk_index" json:"chunk_index"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// VectorMetadata is stored next to every vector.
type VectorMetadata struct {
	DocumentID string `bson:"document_id" json:"document_id"`
	Filename   string `bson:"filename" json:"filename"`
	ChunkIndex int    `bson:"chunk_index" json:"chunk_index"`
	Text       string `bson:"text" json:"text"`
}

// VectorItem is one upsert unit for the vector store.
type VectorItem struct {
	ID       string         `bson:"id"`
	Values   []float32      `bson:"values"`
	Metadata VectorMetadata `bson:"metadata"`
}

// RetrievedChunk is a vector-store match with its metadata.
type RetrievedChunk struct {
	ID       string         `bson:"id" json:"id"`
	Score    float64        `bson:"score" json:"score"`
	Metadata VectorMetadata `bson:"metadata" json:"metadata"`
}

// Source is the public view of a retrieved chunk attached to an answer.
type Source struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
}

// IngestResult is returned by the upload endpoint.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
	Namespace  string `json:"namespace"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}
