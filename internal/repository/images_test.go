package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/debemdeboas/the-showcase/internal/repository/editor"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFSImageStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewFSImageStore(dir, "/uploads/")
	if err != nil {
		t.Fatal(err)
	}

	ref, err := store.Encode(context.Background(), pngData, "logo.png")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(ref), "/uploads/") || !strings.HasSuffix(string(ref), ".png") {
		t.Errorf("unexpected ref %q", ref)
	}

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(string(ref), "/uploads/")))
	if err != nil {
		t.Fatalf("Expected file on disk: %v", err)
	}
	if string(stored) != string(pngData) {
		t.Error("stored bytes differ")
	}

	again, _ := store.Encode(context.Background(), pngData, "copy.png")
	if again != ref {
		t.Errorf("Expected identical content to share a name, got %q and %q", ref, again)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected 1 file, got %d", len(entries))
	}

	if _, err := store.Encode(context.Background(), []byte("plain text"), "a.txt"); !errors.Is(err, editor.ErrNotImage) {
		t.Errorf("Expected ErrNotImage, got %v", err)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ImageStore(t *testing.T) {
	fake := &fakeS3{}
	store := newS3ImageStore(fake, "showcase", "https://cdn.example.com")

	ref, err := store.Encode(context.Background(), pngData, "hero.png")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(ref), "https://cdn.example.com/images/") {
		t.Errorf("unexpected ref %q", ref)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("Expected one upload, got %d", len(fake.inputs))
	}
	in := fake.inputs[0]
	if *in.Bucket != "showcase" || *in.ContentType != "image/png" {
		t.Errorf("unexpected input bucket=%s type=%s", *in.Bucket, *in.ContentType)
	}
	if !strings.HasSuffix(string(ref), *in.Key) {
		t.Errorf("ref %q does not end with key %q", ref, *in.Key)
	}

	fake.err = errors.New("access denied")
	if _, err := store.Encode(context.Background(), pngData, "hero.png"); err == nil {
		t.Error("Expected upload error")
	}

	if _, err := store.Encode(context.Background(), []byte("nope"), "x"); !errors.Is(err, editor.ErrNotImage) {
		t.Errorf("Expected ErrNotImage, got %v", err)
	}
}

var (
	_ ImageStore          = (*FSImageStore)(nil)
	_ ImageStore          = (*S3ImageStore)(nil)
	_ editor.ImageEncoder = (ImageStore)(nil)
)
