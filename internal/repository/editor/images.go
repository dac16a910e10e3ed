package editor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/debemdeboas/the-showcase/internal/model"
)

var ErrNotImage = errors.New("upload is not an image")

// ImageEncoder turns uploaded bytes into a reference a browser can display.
type ImageEncoder interface {
	Encode(ctx context.Context, data []byte, filename string) (model.ImageRef, error)
}

// DetectImageType sniffs data and fails unless it is an image.
func DetectImageType(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return mime, nil
}

// DataURIEncoder embeds the image in the page as a base64 data URI.
type DataURIEncoder struct{}

func (DataURIEncoder) Encode(_ context.Context, data []byte, _ string) (model.ImageRef, error) {
	mime, err := DetectImageType(data)
	if err != nil {
		return "", err
	}
	return model.ImageRef("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}
