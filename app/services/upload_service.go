package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/storage"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores product images on a disk.
type UploadService struct {
	disk     storage.Disk
	maxBytes int64
}

func NewUploadService(disk storage.Disk, maxBytes int64) *UploadService {
	return &UploadService{disk: disk, maxBytes: maxBytes}
}

// MaxBytes is the largest accepted image.
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// StoreImage sniffs the content type, names the object after the original
// file name and returns its public URL. Non-images are rejected.
func (s *UploadService) StoreImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(head) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s is not an accepted image type", ErrInvalidInput, contentType)
	}

	base := slug.Make(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "image"
	}
	name := fmt.Sprintf("products/%s-%s%s", base, uuid.NewString()[:8], ext)

	var body io.Reader = br
	if s.maxBytes > 0 {
		body = &limitedReader{r: br, left: s.maxBytes}
	}
	url, err := s.disk.Put(ctx, name, body, contentType)
	if err != nil {
		if lr, ok := body.(*limitedReader); ok && lr.exceeded {
			_ = s.disk.Delete(ctx, name)
			return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxBytes)
		}
		return "", fmt.Errorf("store upload: %w", err)
	}

	logger.WithCtx(ctx).Info("image uploaded", "path", name, "content_type", contentType)
	return url, nil
}

// limitedReader fails once more than left bytes are read.
type limitedReader struct {
	r        io.Reader
	left     int64
	exceeded bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.left < 0 {
		l.exceeded = true
		return 0, errTooLarge
	}
	if int64(len(p)) > l.left+1 {
		p = p[:l.left+1]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		l.exceeded = true
		return n, errTooLarge
	}
	return n, err
}

var errTooLarge = errors.New("upload too large")
