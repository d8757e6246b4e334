package storage

import (
	"context"
	"io"
)

// Uploader archives an uploaded resume and returns the stored object key.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
