package forms

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/notify"
	"github.com/debemdeboas/the-showcase/internal/routes"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	MsgContactSuccess    = "Thank you! We'll be in touch soon."
	MsgNewsletterSuccess = "You're subscribed! Check your inbox."
	MsgFailure           = "Sorry, something went wrong. Please try again."
)

// FormView is what the form templates render. Values is empty after a
// successful submission so the form comes back cleared.
type FormView struct {
	Values  map[string]string
	Invalid string
}

type Handler struct {
	submitter Submitter
	tmpl      *template.Template
}

func NewHandler(submitter Submitter, tmpl *template.Template) *Handler {
	return &Handler{
		submitter: submitter,
		tmpl:      tmpl,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post(routes.FormContact, h.Contact)
	r.Post(routes.FormNewsletter, h.Newsletter)
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, model.FormContact, config.TemplateNameContact, MsgContactSuccess)
}

func (h *Handler) Newsletter(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, model.FormNewsletter, config.TemplateNameNewsletter, MsgNewsletterSuccess)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, kind model.FormKind, tmplName, successMsg string) {
	log := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, config.ErrInvalidForm, http.StatusBadRequest)
		return
	}

	fields, err := Validator(kind)(r.PostForm)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			verr = &ValidationError{Message: MsgFailure}
		}
		log.Debug().Str("kind", string(kind)).Str("field", verr.Field).Msg("Form rejected")
		h.render(w, r, tmplName, FormView{Values: submitted(r.PostForm), Invalid: verr.Field}, notify.Error(verr.Message))
		return
	}

	if err := h.submitter.Submit(r.Context(), kind, fields); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("Form submission failed")
		h.render(w, r, tmplName, FormView{Values: submitted(r.PostForm)}, notify.Error(MsgFailure))
		return
	}

	log.Info().Str("kind", string(kind)).Msg("Form submitted")
	h.render(w, r, tmplName, FormView{Values: map[string]string{}}, notify.Success(successMsg))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tmplName string, view FormView, toast notify.Toast) {
	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := h.tmpl.ExecuteTemplate(w, tmplName, view); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", tmplName).Msg("Error rendering form")
		return
	}
	if err := notify.Render(w, h.tmpl, toast); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error rendering toast")
	}
}

func submitted(form url.Values) map[string]string {
	values := make(map[string]string, len(form))
	for k := range form {
		values[k] = form.Get(k)
	}
	return values
}
