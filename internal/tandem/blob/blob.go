// Package blob stores profile photos and hands back a stable path.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("blob: unsupported file type")
	ErrNotFound        = errors.New("blob: not found")
)

// Storage is implemented by the local and S3 backends.
type Storage interface {
	// Put stores r under a fresh key derived from filename and returns the
	// path to persist on the user.
	Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error)

	// Delete removes a previously returned path. Missing paths are ignored.
	Delete(ctx context.Context, path string) error

	// URL returns a link a client can fetch the object from.
	URL(ctx context.Context, path string) (string, error)
}

var allowedExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// NewKey returns profiles/yyyy/m/d/<uuid><ext> for an upload named filename.
func NewKey(now time.Time, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return fmt.Sprintf("profiles/%d/%d/%d/%s%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext), nil
}

// ContentTypeFor falls back to the extension when the client sent nothing
// useful.
func ContentTypeFor(filename, sent string) string {
	if sent != "" && sent != "application/octet-stream" {
		return sent
	}
	if ct, ok := allowedExt[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
