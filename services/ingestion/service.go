// File: services/ingestion/service.go
package ingestion

import (
	"context"
	"fmt"
	"strings"

	"ragchat/database/repository/documentRepo"
	"ragchat/database/repository/vectorRepo"
	"ragchat/models"
	ai "ragchat/services/intelligence"

	"go.uber.org/zap"
)

// IndexEnqueuer schedules background indexing of a stored document.
type IndexEnqueuer interface {
	EnqueueIndex(ctx context.Context, documentID string) error
}

// UploadRequest is one file handed to Ingest.
type UploadRequest struct {
	Filename    string
	ContentType string // declared by the client; used when the extension says nothing
	Data        []byte
	Namespace   string
	Options     ChunkOptions
}

type Service struct {
	documents documentRepo.DocumentRepository
	vectors   vectorRepo.VectorRepository
	embedder  ai.Embedder
	enqueuer  IndexEnqueuer
	logger    *zap.Logger
}

// NewService builds the ingestion service. A nil enqueuer indexes inline.
func NewService(documents documentRepo.DocumentRepository, vectors vectorRepo.VectorRepository,
	embedder ai.Embedder, enqueuer IndexEnqueuer, logger *zap.Logger) *Service {
	return &Service{
		documents: documents,
		vectors:   vectors,
		embedder:  embedder,
		enqueuer:  enqueuer,
		logger:    logger,
	}
}

// Ingest parses, chunks and stores a file, then indexes it inline or hands it
// to the background worker.
func (s *Service) Ingest(ctx context.Context, req UploadRequest) (*models.IngestResult, error) {
	fileType, err := FileType(req.Filename, req.ContentType)
	if err != nil {
		return nil, err
	}
	opts := req.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	text, err := ReadText(fileType, req.Data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	pieces, err := Chunk(text, opts)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	if len(pieces) == 0 {
		return nil, ErrEmptyDocument
	}

	namespace := req.Namespace
	if namespace == "" {
		namespace = vectorRepo.DefaultNamespace
	}
	doc, err := s.documents.CreateDocument(ctx, models.Document{
		Filename:  req.Filename,
		Filetype:  fileType,
		Source:    "upload",
		Namespace: namespace,
		Meta:      models.DocumentMeta{Chunker: opts.Chunker, ChunkSize: opts.Size, ChunkOverlap: opts.Overlap},
	})
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	chunks := make([]models.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = models.Chunk{DocumentID: doc.ID, ChunkIndex: i, Text: p}
	}
	if err := s.documents.InsertChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	result := &models.IngestResult{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Chunks:     len(chunks),
		Namespace:  namespace,
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueIndex(ctx, doc.ID); err != nil {
			s.markFailed(ctx, doc.ID)
			return nil, fmt.Errorf("enqueue indexing: %w", err)
		}
		result.Status = models.DocumentPending
		result.Message = "Ingestion queued"
		s.logger.Info("Document queued for indexing", zap.String("document_id", doc.ID), zap.Int("chunks", len(chunks)))
		return result, nil
	}

	if err := s.IndexDocument(ctx, doc.ID); err != nil {
		return nil, err
	}
	result.Status = models.DocumentIndexed
	result.Message = "Ingestion completed"
	return result, nil
}

// IndexDocument embeds the stored chunks of a document and upserts them into
// the vector store. The document ends as indexed or failed.
func (s *Service) IndexDocument(ctx context.Context, documentID string) error {
	doc, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	chunks, err := s.documents.GetChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		s.markFailed(ctx, documentID)
		return fmt.Errorf("embed chunks: %w", err)
	}

	items := make([]models.VectorItem, len(chunks))
	for i, c := range chunks {
		items[i] = models.VectorItem{
			ID:     c.ID,
			Values: embeddings[i],
			Metadata: models.VectorMetadata{
				DocumentID: doc.ID,
				Filename:   doc.Filename,
				ChunkIndex: c.ChunkIndex,
				Text:       c.Text,
			},
		}
	}
	if err := s.vectors.Upsert(ctx, items, doc.Namespace); err != nil {
		// A partial bulk write leaves vectors behind.
		if derr := s.vectors.DeleteByDocument(ctx, documentID); derr != nil {
			s.logger.Warn("Failed to remove partial vectors", zap.String("document_id", documentID), zap.Error(derr))
		}
		s.markFailed(ctx, documentID)
		return fmt.Errorf("upsert vectors: %w", err)
	}

	if err := s.documents.SetStatus(ctx, documentID, models.DocumentIndexed); err != nil {
		return fmt.Errorf("mark indexed: %w", err)
	}
	s.logger.Info("Document indexed", zap.String("document_id", documentID), zap.Int("vectors", len(items)))
	return nil
}

func (s *Service) markFailed(ctx context.Context, documentID string) {
	if err := s.documents.SetStatus(ctx, documentID, models.DocumentFailed); err != nil {
		s.logger.Error("Failed to mark document as failed", zap.String("document_id", documentID), zap.Error(err))
	}
}
