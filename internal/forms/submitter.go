package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Submitter delivers validated form fields somewhere. It either succeeds or
// returns an error; callers do not retry.
type Submitter interface {
	Submit(ctx context.Context, kind model.FormKind, fields map[string]string) error
}

type SubmitterFunc func(ctx context.Context, kind model.FormKind, fields map[string]string) error

func (f SubmitterFunc) Submit(ctx context.Context, kind model.FormKind, fields map[string]string) error {
	return f(ctx, kind, fields)
}

// SimulatedSubmitter waits Delay and then returns Err, which is usually nil.
type SimulatedSubmitter struct {
	Delay time.Duration
	Err   error
}

func (s SimulatedSubmitter) Submit(ctx context.Context, kind model.FormKind, fields map[string]string) error {
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	zerolog.Ctx(ctx).Info().Str("kind", string(kind)).Int("fields", len(fields)).Msg("Simulated submission")
	return s.Err
}

const idempotencyHeader = "Idempotency-Key"

// HTTPSubmitter posts {"kind", "fields"} as JSON to <endpoint>/<kind>.
// Only the request context bounds the call.
type HTTPSubmitter struct {
	endpoint string
	http     *http.Client
}

func NewHTTPSubmitter(endpoint string, client *http.Client) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSubmitter{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		http:     client,
	}
}

type submissionPayload struct {
	Kind   model.FormKind    `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func (s *HTTPSubmitter) Submit(ctx context.Context, kind model.FormKind, fields map[string]string) error {
	endpoint, err := url.JoinPath(s.endpoint, string(kind))
	if err != nil {
		return fmt.Errorf("forms: endpoint: %w", err)
	}
	payload, err := json.Marshal(submissionPayload{Kind: kind, Fields: fields})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set(config.HCType, config.CTypeJSON)
	req.Header.Set("Accept", config.CTypeJSON)
	req.Header.Set(idempotencyHeader, uuid.NewString())

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("forms: %s submission: %w", kind, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("forms: %s submission status %d: %s", kind, resp.StatusCode, drainError(resp.Body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func drainError(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	return strings.TrimSpace(string(body))
}

// RepositorySubmitter stores every submission for later review with cmd/submissions.
type RepositorySubmitter struct {
	repo repository.SubmissionRepository
}

func NewRepositorySubmitter(repo repository.SubmissionRepository) *RepositorySubmitter {
	return &RepositorySubmitter{repo: repo}
}

func (s *RepositorySubmitter) Submit(ctx context.Context, kind model.FormKind, fields map[string]string) error {
	return s.repo.Save(ctx, &model.Submission{Kind: kind, Fields: fields})
}

// NewSubmitter picks the backend named by cfg.Backend. repo is only used by
// the sqlite backend and may be nil otherwise.
func NewSubmitter(cfg config.FormsConfig, repo repository.SubmissionRepository) (Submitter, error) {
	switch cfg.Backend {
	case config.FormsBackendSimulated:
		return SimulatedSubmitter{Delay: cfg.SimulatedDelay}, nil
	case config.FormsBackendHTTP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("forms: %q backend needs an endpoint", cfg.Backend)
		}
		return NewHTTPSubmitter(cfg.Endpoint, nil), nil
	case config.FormsBackendSQLite:
		if repo == nil {
			return nil, fmt.Errorf("forms: %q backend needs a submission repository", cfg.Backend)
		}
		return NewRepositorySubmitter(repo), nil
	}
	return nil, fmt.Errorf("forms: unknown backend %q", cfg.Backend)
}
