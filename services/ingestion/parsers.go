// File: services/ingestion/parsers.go
package ingestion

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// FileType returns "pdf" or "txt" from the filename extension, falling back
// to the content type when the extension is missing or unknown.
func FileType(filename, contentType string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf", nil
	case ".txt":
		return "txt", nil
	}

	// No usable extension: trust the declared content type.
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return "pdf", nil
	case strings.HasPrefix(ct, "text/"):
		return "txt", nil
	}
	return "", fmt.Errorf("%w: %q (%s)", ErrUnsupportedFileType, filepath.Ext(filename), contentType)
}

// ReadText dispatches on the file type.
func ReadText(fileType string, data []byte) (string, error) {
	switch fileType {
	case "pdf":
		return ReadPDF(data)
	case "txt":
		return ReadTXT(data), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}
}

// ReadTXT decodes UTF-8, dropping invalid sequences.
func ReadTXT(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

// ReadPDF extracts the plain text of every page, pages separated by newlines.
// A page whose content stream cannot be decoded contributes nothing.
func ReadPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}
