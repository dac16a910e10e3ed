package forms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/view"
)

type recordingSubmitter struct {
	mu    sync.Mutex
	calls []map[string]string
	kinds []model.FormKind
	err   error
}

func (s *recordingSubmitter) Submit(_ context.Context, kind model.FormKind, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fields)
	s.kinds = append(s.kinds, kind)
	return s.err
}

func newFormsRouter(t *testing.T, submitter Submitter) chi.Router {
	t.Helper()
	tmpl, err := view.New(os.DirFS("../.."))
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(submitter, tmpl).Routes(r)
	return r
}

func post(t *testing.T, r http.Handler, target string, form url.Values) *goquery.Document {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func toast(doc *goquery.Document) *goquery.Selection {
	return doc.Find(`[hx-swap-oob="beforeend:#toasts"] .toast`)
}

func TestNewsletterRejectsInvalidEmail(t *testing.T) {
	submitter := &recordingSubmitter{}
	doc := post(t, newFormsRouter(t, submitter), "/forms/newsletter", url.Values{"email": {"not-an-email"}})

	assert.Empty(t, submitter.calls, "invalid input must not reach the submitter")

	tst := toast(doc)
	require.Equal(t, 1, tst.Length())
	assert.True(t, tst.HasClass("toast-error"))
	assert.Equal(t, MsgInvalidEmail, strings.TrimSpace(tst.Find(".toast-message").Text()))

	input := doc.Find(`#newsletter-form input[name="email"]`)
	assert.Equal(t, "not-an-email", input.AttrOr("value", ""), "the form keeps the value for correction")
	assert.Equal(t, "true", input.AttrOr("aria-invalid", ""))
}

func TestContactSubmitsExactlyThreeFields(t *testing.T) {
	submitter := &recordingSubmitter{}
	doc := post(t, newFormsRouter(t, submitter), "/forms/contact", url.Values{
		"name":    {"Ada"},
		"email":   {"a@b.co"},
		"message": {"Hello there"},
		"company": {"not forwarded"},
	})

	require.Len(t, submitter.calls, 1)
	assert.Equal(t, []model.FormKind{model.FormContact}, submitter.kinds)
	assert.Equal(t, map[string]string{"name": "Ada", "email": "a@b.co", "message": "Hello there"}, submitter.calls[0])

	tst := toast(doc)
	require.Equal(t, 1, tst.Length())
	assert.True(t, tst.HasClass("toast-success"))
	assert.Equal(t, MsgContactSuccess, strings.TrimSpace(tst.Find(".toast-message").Text()))

	form := doc.Find("#contact-form")
	require.Equal(t, 1, form.Length())
	assert.Equal(t, "", form.Find(`input[name="name"]`).AttrOr("value", "missing"))
	assert.Equal(t, "", form.Find(`input[name="email"]`).AttrOr("value", "missing"))
	assert.Equal(t, "", strings.TrimSpace(form.Find(`textarea[name="message"]`).Text()), "fields are cleared on success")
}

func TestContactForwardsValuesAsTyped(t *testing.T) {
	submitter := &recordingSubmitter{}
	post(t, newFormsRouter(t, submitter), "/forms/contact", url.Values{
		"name":    {" Ada "},
		"email":   {"a@b.co"},
		"message": {"Hello\n\n  there "},
	})

	require.Len(t, submitter.calls, 1)
	assert.Equal(t, map[string]string{"name": " Ada ", "email": "a@b.co", "message": "Hello\n\n  there "}, submitter.calls[0])
}

func TestContactMissingField(t *testing.T) {
	submitter := &recordingSubmitter{}
	doc := post(t, newFormsRouter(t, submitter), "/forms/contact", url.Values{
		"name":  {"Ada"},
		"email": {"a@b.co"},
	})

	assert.Empty(t, submitter.calls)
	assert.Equal(t, MsgRequired, strings.TrimSpace(toast(doc).Find(".toast-message").Text()))
	assert.Equal(t, "Ada", doc.Find(`input[name="name"]`).AttrOr("value", ""))
	assert.Equal(t, "true", doc.Find(`textarea[name="message"]`).AttrOr("aria-invalid", ""))
}

func TestSubmissionFailureKeepsValues(t *testing.T) {
	submitter := &recordingSubmitter{err: errors.New("upstream down")}
	doc := post(t, newFormsRouter(t, submitter), "/forms/newsletter", url.Values{"email": {"a@b.co"}})

	require.Len(t, submitter.calls, 1)
	tst := toast(doc)
	assert.True(t, tst.HasClass("toast-error"))
	assert.Equal(t, MsgFailure, strings.TrimSpace(tst.Find(".toast-message").Text()))
	assert.Equal(t, "a@b.co", doc.Find(`input[name="email"]`).AttrOr("value", ""))
}

func TestNewsletterSuccess(t *testing.T) {
	submitter := &recordingSubmitter{}
	doc := post(t, newFormsRouter(t, submitter), "/forms/newsletter", url.Values{"email": {"a@b.co"}})

	require.Len(t, submitter.calls, 1)
	assert.Equal(t, map[string]string{"email": "a@b.co"}, submitter.calls[0])
	assert.Equal(t, MsgNewsletterSuccess, strings.TrimSpace(toast(doc).Find(".toast-message").Text()))
	assert.Equal(t, "", doc.Find(`input[name="email"]`).AttrOr("value", "missing"))
}
