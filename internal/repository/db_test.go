package repository

import (
	"context"
	"testing"
	"time"

	"github.com/debemdeboas/the-showcase/internal/db"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/util/compression"
)

func setupTestDB(t *testing.T) *db.SQLite {
	t.Helper()
	sqlite := db.NewSQLite(":memory:")
	if err := sqlite.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return sqlite
}

func TestDBSubmissionRepository(t *testing.T) {
	for _, name := range []string{"zstd", "gzip"} {
		t.Run(name, func(t *testing.T) {
			compressor, _ := compression.ForName(name)
			repo := NewDBSubmissionRepository(setupTestDB(t), compressor)
			ctx := context.Background()

			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			contact := &model.Submission{
				Kind:      model.FormContact,
				Fields:    map[string]string{"name": "Ada", "email": "ada@example.com", "message": "Hello"},
				CreatedAt: base,
			}
			newsletter := &model.Submission{
				Kind:      model.FormNewsletter,
				Fields:    map[string]string{"email": "grace@example.com"},
				CreatedAt: base.Add(time.Minute),
			}

			for _, s := range []*model.Submission{contact, newsletter} {
				if err := repo.Save(ctx, s); err != nil {
					t.Fatalf("Save: %v", err)
				}
				if s.ID == "" {
					t.Error("Expected Save to assign an id")
				}
			}

			all, err := repo.List(ctx, "", 0)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(all) != 2 {
				t.Fatalf("Expected 2 submissions, got %d", len(all))
			}
			if all[0].ID != newsletter.ID {
				t.Error("Expected newest submission first")
			}

			contacts, err := repo.List(ctx, model.FormContact, 10)
			if err != nil {
				t.Fatal(err)
			}
			if len(contacts) != 1 {
				t.Fatalf("Expected 1 contact submission, got %d", len(contacts))
			}
			got := contacts[0]
			if got.Fields["name"] != "Ada" || got.Fields["message"] != "Hello" || len(got.Fields) != 3 {
				t.Errorf("unexpected fields %v", got.Fields)
			}
			if !got.CreatedAt.Equal(base) {
				t.Errorf("Expected created_at %v, got %v", base, got.CreatedAt)
			}

			n, err := repo.Count(ctx, model.FormNewsletter)
			if err != nil || n != 1 {
				t.Errorf("Count(newsletter) = %d, %v", n, err)
			}
			n, _ = repo.Count(ctx, "")
			if n != 2 {
				t.Errorf("Count() = %d, want 2", n)
			}

			limited, _ := repo.List(ctx, "", 1)
			if len(limited) != 1 {
				t.Errorf("Expected limit to apply, got %d", len(limited))
			}
		})
	}
}

func TestDBSubmissionRepositoryDefaults(t *testing.T) {
	repo := NewDBSubmissionRepository(setupTestDB(t), nil)
	s := &model.Submission{Kind: model.FormNewsletter, Fields: map[string]string{"email": "a@b.co"}}

	before := time.Now().UTC().Add(-time.Second)
	if err := repo.Save(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if s.CreatedAt.Before(before) {
		t.Errorf("Expected CreatedAt to be set to now, got %v", s.CreatedAt)
	}
	if err := repo.Save(context.Background(), s); err == nil {
		t.Error("Expected saving the same id twice to fail")
	}
}
