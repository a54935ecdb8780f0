package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
		wantErr     bool
	}{
		{"Handbook.PDF", "", "pdf", false},
		{"notes.txt", "", "txt", false},
		{"notes.txt", "application/octet-stream", "txt", false},
		{"handbook", "application/pdf", "pdf", false},
		{"README", "text/plain; charset=utf-8", "txt", false},
		{"export.bin", "Application/PDF", "pdf", false},
		{"slides.pptx", "", "", true},
		{"README", "", "", true},
		{"README", "application/octet-stream", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.contentType, func(t *testing.T) {
			ft, err := FileType(tt.filename, tt.contentType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ft)
		})
	}
}

func TestReadTXT(t *testing.T) {
	assert.Equal(t, "héllo", ReadTXT([]byte("héllo")))
	assert.Equal(t, "ab", ReadTXT([]byte{'a', 0xff, 'b'}))
}

func TestReadPDF_Invalid(t *testing.T) {
	_, err := ReadPDF([]byte("not a pdf"))
	assert.ErrorIs(t, err, ErrUnreadableFile)
}
