package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/the-showcase/internal/auth/testdata"
	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/sse"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	original := config.AppConfig
	t.Cleanup(func() { config.AppConfig = original })

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Forms.SimulatedDelay = 0
	config.AppConfig = cfg
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*app, http.Handler) {
	t.Helper()
	a, cleanup, err := newApp(context.Background(), cfg, os.DirFS("."))
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return a, a.routes(zerolog.Nop())
}

func serve(h http.Handler, method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set(config.HHxRequest, "true")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeIndex(t *testing.T) {
	_, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(config.HETag))
	assert.Equal(t, "deny", rec.Header().Get("X-Frame-Options"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "Your Brand", doc.Find("title").Text())
	assert.Equal(t, "80", doc.Find("body").AttrOr("data-scroll-offset", ""))
	assert.Equal(t, 4, doc.Find("#blocks article.block").Length())
	assert.Equal(t, 0, doc.Find(".block-controls").Length())
	assert.Equal(t, "Edit Page", strings.TrimSpace(doc.Find(".btn-toggle").Text()))
	assert.Equal(t, 1, doc.Find("#contact-form").Length())
	assert.Equal(t, 1, doc.Find("#newsletter-form").Length())
	assert.Equal(t, 1, doc.Find("#toasts").Length())
	assert.Equal(t, 1, doc.Find(`a[href="#contact"]`).Length())
}

func TestRobotsSkipsSecureHeaders(t *testing.T) {
	_, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodGet, "/robots.txt", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User-agent: *")
	assert.Empty(t, rec.Header().Get("X-Frame-Options"))
}

func TestStaticFilesCarryETag(t *testing.T) {
	_, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodGet, "/static/js/site.js", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(config.HETag))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get(config.HCacheControl))
}

func TestThemeToggle(t *testing.T) {
	_, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodPost, "/theme/toggle", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.LightThemeIcon, rec.Body.String())
	assert.Contains(t, rec.Header().Get(config.HHxTrigger), `"value":"dark"`)

	var themeCookie string
	for _, c := range rec.Result().Cookies() {
		if c.Name == config.CookieTheme {
			themeCookie = c.Value
		}
	}
	assert.Equal(t, config.DarkTheme, themeCookie)
}

func TestSyntaxTheme(t *testing.T) {
	_, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodPost, "/syntax-theme/set", url.Values{"syntax-theme-select": {"monokai"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.CTypeCSS, rec.Header().Get(config.HCType))
	assert.Contains(t, rec.Body.String(), ".chroma")

	rec = serve(h, http.MethodPost, "/syntax-theme/set", url.Values{"syntax-theme-select": {"</style>"}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodGet, "/syntax-theme/gruvbox", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(h, http.MethodGet, "/syntax-theme/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditFlow(t *testing.T) {
	a, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodPost, "/blocks", url.Values{"variant": {"text"}}, true)
	assert.Equal(t, http.StatusConflict, rec.Code, "adding needs edit mode")

	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/edit/toggle", nil, true).Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/blocks", url.Values{"variant": {"text"}}, true).Code)

	blocks := a.store.Blocks()
	require.Len(t, blocks, 5)
	id := string(blocks[4].ID)

	rec = serve(h, http.MethodPost, "/blocks/"+id+"/fields", url.Values{"content": {"hello"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	b, ok := a.store.Get(model.BlockID(id))
	require.True(t, ok)
	assert.Equal(t, model.Text{Content: "hello"}, b.Content)

	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/edit/toggle", nil, true).Code)

	rec = serve(h, http.MethodGet, "/", nil, false)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Find("#blocks article.block").Length())
	assert.Equal(t, "hello", strings.TrimSpace(doc.Find(`article[data-block-id="`+id+`"] .text-block`).Text()))
}

func TestStoreChangesAreBroadcast(t *testing.T) {
	a, _ := newTestServer(t, testConfig(t))

	client := &sse.Client{Msg: make(chan sse.Event, 1)}
	a.clients.Add(client)
	t.Cleanup(func() { a.clients.Delete(client) })

	a.store.ToggleEditMode()

	select {
	case ev := <-client.Msg:
		assert.Equal(t, sse.Event{Name: "changed", Data: "1"}, ev)
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}

func TestContactFormRoute(t *testing.T) {
	_, h := newTestServer(t, testConfig(t))

	rec := serve(h, http.MethodPost, "/forms/contact", url.Values{
		"name": {"Ada"}, "email": {"a@b.co"}, "message": {"Hi"},
	}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thank you! We&#39;ll be in touch soon.")
}

func TestSQLiteFormsBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Forms.Backend = config.FormsBackendSQLite
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "showcase.db")

	_, h := newTestServer(t, cfg)

	rec := serve(h, http.MethodPost, "/forms/newsletter", url.Values{"email": {"a@b.co"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "subscribed")
	assert.FileExists(t, cfg.Storage.DatabasePath)
}

func TestFSUploadsAreServed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Uploads.Backend = config.UploadsBackendFS
	cfg.Uploads.Dir = t.TempDir()

	a, h := newTestServer(t, cfg)
	require.Equal(t, cfg.Uploads.Dir, a.uploads)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Uploads.Dir, "pic.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))
	rec := serve(h, http.MethodGet, "/uploads/pic.png", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(config.HCType))
}

func TestEd25519AuthNeedsKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Authentication.Enabled = true
	cfg.Features.Authentication.Type = config.AuthTypeEd25519
	t.Setenv(envEd25519PubKey, "")

	_, _, err := newApp(context.Background(), cfg, os.DirFS("."))
	require.Error(t, err)
}

func TestAuthEnabledHidesEditing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Authentication.Enabled = true
	cfg.Features.Authentication.Type = config.AuthTypeEd25519
	t.Setenv(envEd25519PubKey, testdata.TestPublicKeyPEM())

	_, h := newTestServer(t, cfg)

	rec := serve(h, http.MethodGet, "/", nil, false)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Find(".btn-toggle").Length())
	assert.Equal(t, "/auth/login", doc.Find(".btn-login").AttrOr("href", ""))

	rec = serve(h, http.MethodPost, "/edit/toggle", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get(config.HHxRedirect))

	rec = serve(h, http.MethodGet, "/auth/challenge", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(h, http.MethodGet, "/auth/login", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
