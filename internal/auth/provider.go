// Package auth gates page editing behind an operator login.
package auth

import (
	"errors"
	"net/http"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/rs/zerolog"
)

var authLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

var ErrNoSession = errors.New("no user ID in context")

type AuthProvider interface {
	// WithHeaderAuthorization resolves the operator, if any, into the request context.
	WithHeaderAuthorization() func(http.Handler) http.Handler

	GetUserIDFromSession(r *http.Request) (model.UserID, error)

	// EnforceUserAndGetID writes a 401 with an htmx redirect to the login page
	// when the request has no operator.
	EnforceUserAndGetID(w http.ResponseWriter, r *http.Request) (model.UserID, error)

	LoginURL() string
}

// OpenProvider is used when authentication is disabled. Every request is the operator.
type OpenProvider struct{}

const OpenOperator model.UserID = "operator"

func (OpenProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), OpenOperator)))
		})
	}
}

func (OpenProvider) GetUserIDFromSession(*http.Request) (model.UserID, error) {
	return OpenOperator, nil
}

func (OpenProvider) EnforceUserAndGetID(http.ResponseWriter, *http.Request) (model.UserID, error) {
	return OpenOperator, nil
}

func (OpenProvider) LoginURL() string { return "/" }

// IsAuthenticated reports whether the request carries an operator.
func IsAuthenticated(r *http.Request) bool {
	_, ok := UserIDFromContext(r.Context())
	return ok
}

func unauthorized(w http.ResponseWriter, loginURL string) {
	w.Header().Set(config.HHxRedirect, loginURL)
	http.Error(w, config.ErrUnauthorized, http.StatusUnauthorized)
}
