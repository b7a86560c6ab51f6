// Package storage stores uploaded files on a named disk. Two drivers exist:
//
//   - "local": a directory served by the HTTP server under /uploads
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
//
//	disks, _ := storage.FromConfig(ctx)
//	url, err := disks.Default().Put(ctx, "products/ring.jpg", file, "image/jpeg")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a path does not exist on the disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is a flat object store addressed by slash-separated paths.
type Disk interface {
	// Put writes r to path and returns the public URL of the stored file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error)

	// Open returns the file content. The caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of path.
	URL(path string) string
}
