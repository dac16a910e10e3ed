package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/repository/editor"
	"github.com/debemdeboas/the-showcase/internal/util"
)

// FSImageStore writes uploads into a directory served under urlPrefix.
// Files are named by content hash, so re-uploading an image reuses its file.
type FSImageStore struct { // implements ImageStore
	dir       string
	urlPrefix string
}

func NewFSImageStore(dir, urlPrefix string) (*FSImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating uploads dir: %w", err)
	}
	return &FSImageStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *FSImageStore) Dir() string {
	return s.dir
}

func (s *FSImageStore) Encode(_ context.Context, data []byte, filename string) (model.ImageRef, error) {
	mime, err := editor.DetectImageType(data)
	if err != nil {
		return "", err
	}

	name := util.ShortHash(data, 32) + imageExtension(mime)
	path := filepath.Join(s.dir, name)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("error writing upload: %w", err)
		}
		repoLogger.Info().Str("file", name).Str("original", filename).Msg("Image stored")
	} else if err != nil {
		return "", fmt.Errorf("error checking upload: %w", err)
	}

	return model.ImageRef(s.urlPrefix + name), nil
}
