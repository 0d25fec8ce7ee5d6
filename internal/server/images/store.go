// Package images implements the sleeve photo upload helper. It sanitizes
// incoming filenames against an extension allow-list, stores the raw bytes
// either on local disk or in S3-compatible object storage, and hands back
// the stored name the inventory keeps on the sleeve row.
//
// Image storage is a best-effort side resource: callers log failures and
// carry on, and no ledger transaction ever blocks on or rolls back for
// image I/O.
package images

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedExtension is returned when the uploaded file's extension is
// not on the allow-list.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// allowedExtensions lists the accepted image extensions, lowercase, with dot.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Store saves raw image payloads under sanitized generated names and
// resolves stored names to fetchable URLs.
type Store interface {
	// Save stores data under a fresh sanitized name derived from
	// originalName's extension and returns that name.
	// ErrUnsupportedExtension is returned for disallowed extensions.
	Save(ctx context.Context, originalName string, data []byte) (string, error)

	// URL resolves a stored name to a URL the presentation layer can fetch.
	URL(ctx context.Context, storedName string) (string, error)

	// Remove deletes a stored image. Missing objects are not an error.
	Remove(ctx context.Context, storedName string) error
}

// storedName derives a sanitized storage name from the original filename:
// a random UUID plus the original's lowercased extension. Nothing else of
// the user-supplied name survives.
func storedName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return uuid.New().String() + ext, nil
}
