package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"ragchat/models"
	"ragchat/services/ingestion"
	"ragchat/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 20 << 20

// DocumentIngester stores and indexes an uploaded file.
type DocumentIngester interface {
	Ingest(ctx context.Context, req ingestion.UploadRequest) (*models.IngestResult, error)
}

type IngestionHandler struct {
	Ingester DocumentIngester
}

func NewIngestionHandler(ingester DocumentIngester) *IngestionHandler {
	return &IngestionHandler{Ingester: ingester}
}

// UploadHandler accepts a multipart "file" plus chunking query parameters.
func (h *IngestionHandler) UploadHandler(c *gin.Context) {
	logger := getLogger(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required", "details": err.Error()})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	opts, err := chunkOptionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chunking options", "details": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to open upload", err.Error())
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read upload", err.Error())
		return
	}

	result, err := h.Ingester.Ingest(c.Request.Context(), ingestion.UploadRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		Namespace:   c.Query("namespace"),
		Options:     opts,
	})
	if err != nil {
		if isClientIngestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Ingestion failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "ingestion failed", err.Error())
		return
	}

	status := http.StatusOK
	if result.Status == models.DocumentPending {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

func chunkOptionsFromQuery(c *gin.Context) (ingestion.ChunkOptions, error) {
	opts := ingestion.ChunkOptions{
		Chunker: c.DefaultQuery("chunker", ingestion.ChunkerRecursive),
		Size:    ingestion.DefaultChunkSize,
		Overlap: ingestion.DefaultChunkOverlap,
	}
	if v := c.Query("chunk_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("chunk_size must be an integer")
		}
		opts.Size = n
	}
	if v := c.Query("chunk_overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("chunk_overlap must be an integer")
		}
		opts.Overlap = n
	}
	return opts, nil
}

func isClientIngestError(err error) bool {
	return errors.Is(err, ingestion.ErrUnsupportedFileType) ||
		errors.Is(err, ingestion.ErrUnreadableFile) ||
		errors.Is(err, ingestion.ErrEmptyDocument) ||
		errors.Is(err, ingestion.ErrInvalidChunkOptions)
}
