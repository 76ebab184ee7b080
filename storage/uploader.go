package storage

import (
	"context"
	"io"
)

// FileUploader stores team logo files under caller-chosen keys. The key
// is the single handle for a stored object: services persist it on the
// team row and derive the public URL from it on read.
type FileUploader interface {
	// Upload stores the object under key, replacing any previous content.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetPublicURL returns the browser-facing URL for a stored key, or
	// an empty string for an empty key.
	GetPublicURL(key string) string
}
