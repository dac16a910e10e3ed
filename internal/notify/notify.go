// Package notify builds the transient toast notifications shown after form
// submissions and editor errors.
package notify

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultDuration applies when no configuration has been loaded.
const DefaultDuration = 5 * time.Second

// Toast is one notification. It stays visible for Duration and can be
// dismissed earlier by a click. Toasts stack; nothing is coalesced.
type Toast struct {
	ID       string
	Message  string
	Kind     Kind
	Duration time.Duration

	// OOB marks the toast for an htmx out-of-band append to #toasts.
	OOB bool
}

func New(kind Kind, message string) Toast {
	d := DefaultDuration
	if config.AppConfig != nil && config.AppConfig.Notifications.Duration > 0 {
		d = config.AppConfig.Notifications.Duration
	}
	return Toast{
		ID:       "toast-" + uuid.NewString()[:8],
		Message:  message,
		Kind:     kind,
		Duration: d,
	}
}

func Success(message string) Toast { return New(KindSuccess, message) }

func Error(message string) Toast { return New(KindError, message) }

func (t Toast) DismissAfterMs() int64 {
	return t.Duration.Milliseconds()
}

// Render writes each toast with the toast template as an out-of-band swap.
func Render(w io.Writer, tmpl *template.Template, toasts ...Toast) error {
	for _, t := range toasts {
		t.OOB = true
		if err := tmpl.ExecuteTemplate(w, config.TemplateNameToast, t); err != nil {
			return fmt.Errorf("error rendering toast: %w", err)
		}
	}
	return nil
}
