// Package repository holds the storage backends: form submissions in SQL and
// uploaded images on disk or in an S3-compatible bucket.
package repository

import (
	"context"

	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/rs/zerolog"
)

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

type SubmissionRepository interface {
	Save(ctx context.Context, s *model.Submission) error
	// List returns the newest submissions first. An empty kind lists every kind.
	List(ctx context.Context, kind model.FormKind, limit int) ([]model.Submission, error)
	Count(ctx context.Context, kind model.FormKind) (int, error)
}

// ImageStore persists uploaded images and returns the reference the page embeds.
type ImageStore interface {
	Encode(ctx context.Context, data []byte, filename string) (model.ImageRef, error)
}

var imageExtensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

func imageExtension(mime string) string {
	if ext, ok := imageExtensions[mime]; ok {
		return ext
	}
	return ".img"
}
