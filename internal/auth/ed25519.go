package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/routes"
	"github.com/rs/zerolog"
)

// Ed25519AuthProvider authenticates the single operator holding the private
// key matching publicKey. The operator signs the current challenge; the
// signature becomes the session cookie until the challenge is refreshed.
type Ed25519AuthProvider struct {
	publicKey  ed25519.PublicKey
	headerName string
	cookieName string
	userID     model.UserID

	mu        sync.RWMutex
	challenge []byte
}

func ParseEd25519PublicKey(publicKeyPEM string) (ed25519.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	publicKey, ok := pub.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("key is not an Ed25519 public key")
	}
	return publicKey, nil
}

func NewEd25519AuthProvider(publicKeyPEM string, headerName string, userID model.UserID) (*Ed25519AuthProvider, error) {
	publicKey, err := ParseEd25519PublicKey(publicKeyPEM)
	if err != nil {
		return nil, err
	}

	p := &Ed25519AuthProvider{
		publicKey:  publicKey,
		headerName: headerName,
		cookieName: config.CookieAuthToken,
		userID:     userID,
	}
	if err := p.RefreshChallenge(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Ed25519AuthProvider) verify(signature []byte) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ed25519.Verify(p.publicKey, p.challenge, signature)
}

// WithHeaderAuthorization checks the signature header first, then the cookie.
// Requests without a valid signature continue anonymously.
func (p *Ed25519AuthProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := zerolog.Ctx(r.Context())

			var signature []byte
			if authHeader := r.Header.Get(p.headerName); p.headerName != "" && authHeader != "" {
				sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(authHeader))
				if err != nil {
					l.Debug().Err(err).Msg("Failed to decode signature from header")
				}
				signature = sig
			}

			if len(signature) == 0 {
				if cookie, err := r.Cookie(p.cookieName); err == nil && cookie.Value != "" {
					sig, err := base64.StdEncoding.DecodeString(cookie.Value)
					if err != nil {
						l.Debug().Err(err).Msg("Failed to decode signature from cookie")
					}
					signature = sig
				}
			}

			if len(signature) > 0 && p.verify(signature) {
				next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), p.userID)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (p *Ed25519AuthProvider) GetUserIDFromSession(r *http.Request) (model.UserID, error) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return "", ErrNoSession
	}
	return userID, nil
}

func (p *Ed25519AuthProvider) EnforceUserAndGetID(w http.ResponseWriter, r *http.Request) (model.UserID, error) {
	userID, err := p.GetUserIDFromSession(r)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Unauthorized access attempt")
		unauthorized(w, p.LoginURL())
		return "", err
	}
	return userID, nil
}

func (p *Ed25519AuthProvider) LoginURL() string {
	return routes.AuthLogin
}

func (p *Ed25519AuthProvider) GetChallenge() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]byte(nil), p.challenge...)
}

// RefreshChallenge replaces the challenge, which signs out every session.
func (p *Ed25519AuthProvider) RefreshChallenge() error {
	challenge := make([]byte, 32)
	if _, err := rand.Read(challenge); err != nil {
		authLogger.Error().Err(err).Msg("Failed to generate challenge")
		return fmt.Errorf("failed to generate challenge: %w", err)
	}

	p.mu.Lock()
	p.challenge = challenge
	p.mu.Unlock()
	return nil
}
