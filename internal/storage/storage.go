// Package storage persists uploaded PDFs on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// FileStorage provides an abstraction over file storage backends.
type FileStorage interface {
	Save(ctx context.Context, path string, reader io.Reader, size int64) error
	Delete(ctx context.Context, path string) error
	// GetPath returns a printable location for the stored file, or "" when
	// the key is invalid.
	GetPath(ctx context.Context, path string) string
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._ -]`)

// SanitizeFilename reduces a client-supplied name to a single safe path
// segment. It keeps the name recognisable so same-named uploads still map
// to the same key.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload.pdf"
	}
	return unsafeNameChars.ReplaceAllString(name, "_")
}
