package view

import (
	"bytes"
	"html/template"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/notify"
)

func TestNewParsesEveryTemplate(t *testing.T) {
	tmpl, err := New(os.DirFS("../.."))
	require.NoError(t, err)

	for _, name := range []string{
		config.TemplateNameLayout,
		config.TemplateNameMain,
		config.TemplateNameBlocks,
		config.TemplateNameContact,
		config.TemplateNameNewsletter,
		config.TemplateNameToast,
		config.TemplateNameAuth,
	} {
		assert.NotNil(t, tmpl.Lookup(name), "template %q should be defined", name)
	}
}

func TestNewReportsParseErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/broken.html": {Data: []byte(`{{define "x"}}{{.Missing`)},
	}
	_, err := New(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view: parse templates")
}

func TestImageSrc(t *testing.T) {
	cases := []struct {
		ref  model.ImageRef
		want template.URL
	}{
		{"data:image/png;base64,iVBORw0KGgo=", "data:image/png;base64,iVBORw0KGgo="},
		{"/uploads/abc.png", "/uploads/abc.png"},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"http://cdn.example.com/a.jpg", "http://cdn.example.com/a.jpg"},
		{"//evil.example/a.png", ""},
		{"javascript:alert(1)", ""},
		{"data:text/html;base64,PHNjcmlwdD4=", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ImageSrc(tc.ref), "ImageSrc(%q)", tc.ref)
	}
}

func TestVariantLabel(t *testing.T) {
	assert.Equal(t, "Hero", VariantLabel(model.VariantHero))
	assert.Equal(t, "Link", VariantLabel(model.VariantLink))
	assert.Equal(t, "custom", VariantLabel(model.Variant("custom")))
}

func TestToastTemplate(t *testing.T) {
	tmpl, err := New(os.DirFS("../.."))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, notify.Render(&buf, tmpl, notify.Error("Please enter a valid email address")))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	wrapper := doc.Find(`[hx-swap-oob="beforeend:#toasts"]`)
	require.Equal(t, 1, wrapper.Length(), "toast should be swapped out of band")

	toast := wrapper.Find(".toast")
	require.Equal(t, 1, toast.Length())
	assert.True(t, toast.HasClass("toast-error"))
	assert.Equal(t, "alert", toast.AttrOr("role", ""))
	assert.Equal(t, "5000", toast.AttrOr("data-dismiss-after", ""))
	assert.Equal(t, "Please enter a valid email address", strings.TrimSpace(toast.Find(".toast-message").Text()))
}
