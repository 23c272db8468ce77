package ports

import (
	"context"
	"io"
)

// Port: storage for uploaded photo files.
type ImageStorage interface {
	// Store the content under a sanitized, collision-free name derived from
	// filename and return the name actually used. Existing files are never
	// overwritten.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	// Remove the file referenced by a location image path ("images/<name>").
	Remove(ctx context.Context, imagePath string) error
	// Public path recorded in a Location for a stored name.
	PublicPath(name string) string
}
