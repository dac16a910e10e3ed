package auth

import (
	"html/template"

	"github.com/debemdeboas/the-showcase/internal/routes"
	"github.com/go-chi/chi/v5"
)

// RegisterEd25519AuthRoutes mounts the challenge, verify and login routes.
func RegisterEd25519AuthRoutes(r chi.Router, provider *Ed25519AuthProvider, tmpl *template.Template) {
	r.HandleFunc(routes.AuthChallenge, Ed25519ChallengeHandler(provider))
	r.HandleFunc(routes.AuthVerify, Ed25519VerifyHandler(provider))
	r.Get(routes.AuthLogin, Ed25519AuthPageHandler(tmpl))
}
