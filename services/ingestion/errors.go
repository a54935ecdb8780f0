// File: services/ingestion/errors.go
package ingestion

import "errors"

var (
	ErrUnsupportedFileType = errors.New("only .pdf and .txt files are supported")
	ErrUnreadableFile      = errors.New("failed to parse file")
	ErrEmptyDocument       = errors.New("no text could be extracted from the file")
	ErrInvalidChunkOptions = errors.New("invalid chunking options")
)
