package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/debemdeboas/the-showcase/internal/db"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/util/compression"
	"github.com/google/uuid"
)

type DBSubmissionRepository struct { // implements SubmissionRepository
	db         db.DB
	compressor compression.Compressor
}

func NewDBSubmissionRepository(db db.DB, compressor compression.Compressor) *DBSubmissionRepository {
	if compressor == nil {
		compressor = compression.ZstdCompressor{}
	}
	return &DBSubmissionRepository{
		db:         db,
		compressor: compressor,
	}
}

// Save stores s, filling in its id and creation time when unset.
func (r *DBSubmissionRepository) Save(ctx context.Context, s *model.Submission) error {
	if s.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("error generating submission id: %w", err)
		}
		s.ID = model.SubmissionID(id.String())
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(s.Fields)
	if err != nil {
		return fmt.Errorf("error encoding fields: %w", err)
	}
	compressed, err := r.compressor.Compress(raw)
	if err != nil {
		return fmt.Errorf("error compressing fields: %w", err)
	}

	_, err = r.db.Get().ExecContext(ctx,
		`INSERT INTO submissions (id, kind, fields, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Kind, compressed, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving submission: %w", err)
	}

	repoLogger.Debug().Str("submission_id", string(s.ID)).Str("kind", string(s.Kind)).Msg("Submission saved")
	return nil
}

func (r *DBSubmissionRepository) List(ctx context.Context, kind model.FormKind, limit int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT id, kind, fields, created_at FROM submissions
		 WHERE (? = '' OR kind = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		kind, kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying submissions: %w", err)
	}
	defer rows.Close()

	out := make([]model.Submission, 0)
	for rows.Next() {
		var s model.Submission
		var compressed []byte
		if err := rows.Scan(&s.ID, &s.Kind, &compressed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning submission: %w", err)
		}

		raw, err := r.compressor.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing submission %s: %w", s.ID, err)
		}
		if err := json.Unmarshal(raw, &s.Fields); err != nil {
			return nil, fmt.Errorf("error decoding submission %s: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *DBSubmissionRepository) Count(ctx context.Context, kind model.FormKind) (int, error) {
	var n int
	err := r.db.Get().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE (? = '' OR kind = ?)`, kind, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting submissions: %w", err)
	}
	return n, nil
}
