package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/debemdeboas/the-showcase/internal/model"
)

func TestFormatFields(t *testing.T) {
	got := formatFields(map[string]string{"name": "Ada", "email": "a@b.co", "message": "Hi"})
	assert.Equal(t, "email=a@b.co\nmessage=Hi\nname=Ada", got)
	assert.Equal(t, "", formatFields(nil))
}

func TestRenderSubmissions(t *testing.T) {
	var buf bytes.Buffer
	renderSubmissions(&buf, []model.Submission{
		{
			ID:        "sub-1",
			Kind:      model.FormNewsletter,
			Fields:    map[string]string{"email": "a@b.co"},
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}, 3)

	out := buf.String()
	assert.Contains(t, out, "1 of 3 submissions")
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "newsletter")
	assert.Contains(t, out, "email=a@b.co")
	assert.Contains(t, out, "sub-1")
}

func TestRenderNoSubmissions(t *testing.T) {
	var buf bytes.Buffer
	renderSubmissions(&buf, nil, 0)
	assert.Contains(t, buf.String(), "0 of 0 submissions")
	assert.NotContains(t, buf.String(), "KIND")
}
