package interfaces

import (
	"context"
	"io"
)

// StoredFile is the result of an upload
type StoredFile struct {
	URL  string
	Name string
}

// FileStorage keeps attachments. Content is never inspected.
type FileStorage interface {
	Upload(ctx context.Context, name, category, contentType string, r io.Reader) (*StoredFile, error)
	Delete(ctx context.Context, url string) error
}
