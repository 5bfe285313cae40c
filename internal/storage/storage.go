package storage

import (
	"context"
	"io"
)

// FileStorage abstracts where uploaded chat attachments and profile
// photos end up. The returned URL is what gets written into messages.
type FileStorage interface {
	// SaveFile stores the content and returns a public URL for it.
	SaveFile(ctx context.Context, file io.Reader, filename string, contentType string) (string, error)
	// DeleteFile removes a previously stored file by its public URL.
	DeleteFile(ctx context.Context, fileURL string) error
}
