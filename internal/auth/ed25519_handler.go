package auth

import (
	"encoding/base64"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/rs/zerolog"
)

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

func writeChallenge(w http.ResponseWriter, challenge []byte) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	_ = json.NewEncoder(w).Encode(challengeResponse{Challenge: base64.StdEncoding.EncodeToString(challenge)})
}

// Ed25519ChallengeHandler serves the current challenge on GET and replaces it on POST.
// Replacing requires a signed-in operator.
func Ed25519ChallengeHandler(provider *Ed25519AuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeChallenge(w, provider.GetChallenge())

		case http.MethodPost:
			if _, err := provider.EnforceUserAndGetID(w, r); err != nil {
				return
			}
			if err := provider.RefreshChallenge(); err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to refresh challenge")
				http.Error(w, config.ErrRefreshChallengeFmt, http.StatusInternalServerError)
				return
			}
			writeChallenge(w, provider.GetChallenge())

		default:
			http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		}
	}
}

// Ed25519VerifyHandler checks a signature of the current challenge and, if it
// is valid, stores it as the session cookie.
func Ed25519VerifyHandler(provider *Ed25519AuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
			return
		}

		authHeader := r.Header.Get(provider.headerName)
		if authHeader == "" {
			http.Error(w, config.ErrAuthHeaderRequired, http.StatusUnauthorized)
			return
		}

		signature, err := base64.StdEncoding.DecodeString(strings.TrimSpace(authHeader))
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Failed to decode signature")
			http.Error(w, config.ErrInvalidSignatureFormat, http.StatusUnauthorized)
			return
		}

		if !provider.verify(signature) {
			zerolog.Ctx(r.Context()).Warn().Msg("Signature verification failed")
			http.Error(w, config.ErrInvalidSignature, http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     config.CookieAuthToken,
			Value:    base64.StdEncoding.EncodeToString(signature),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   r.TLS != nil,
			MaxAge:   3600 * 24,
		})
		zerolog.Ctx(r.Context()).Info().Msg("Operator signed in")
		w.WriteHeader(http.StatusOK)
	}
}

// Ed25519AuthPageHandler serves the login page. Only local redirect targets are honoured.
func Ed25519AuthPageHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectURL := r.URL.Query().Get("redirect")
		if !strings.HasPrefix(redirectURL, "/") || strings.HasPrefix(redirectURL, "//") {
			redirectURL = "/"
		}

		data := struct {
			RedirectURL string
		}{
			RedirectURL: redirectURL,
		}

		w.Header().Set(config.HCType, config.CTypeHTML)
		if err := tmpl.ExecuteTemplate(w, config.TemplateNameAuth, data); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render auth template")
			http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		}
	}
}
