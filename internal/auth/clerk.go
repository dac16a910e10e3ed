package auth

import (
	"errors"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/rs/zerolog"
)

// ClerkAuthProvider accepts Clerk session JWTs from the __session cookie.
// When operators is non-empty only those Clerk user ids may edit.
type ClerkAuthProvider struct {
	cookieExtractor clerkhttp.AuthorizationOption
	operators       map[model.UserID]bool
	signInURL       string
}

func NewClerkAuthProvider(clerkKey, signInURL string, operators ...model.UserID) *ClerkAuthProvider {
	clerk.SetKey(clerkKey)

	allowed := make(map[model.UserID]bool, len(operators))
	for _, id := range operators {
		allowed[id] = true
	}
	if signInURL == "" {
		signInURL = "/"
	}

	return &ClerkAuthProvider{
		cookieExtractor: clerkhttp.AuthorizationJWTExtractor(func(r *http.Request) string {
			cookie, err := r.Cookie(config.CookieClerk)
			if err != nil {
				return ""
			}
			return cookie.Value
		}),
		operators: allowed,
		signInURL: signInURL,
	}
}

// WithHeaderAuthorization verifies the session with Clerk and records the
// operator in the context. Requests without a session continue anonymously.
func (c *ClerkAuthProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	verify := clerkhttp.WithHeaderAuthorization(c.cookieExtractor)
	return func(next http.Handler) http.Handler {
		resolve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := c.userFromClaims(r); err == nil {
				r = r.WithContext(ContextWithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
		return verify(resolve)
	}
}

var ErrNotOperator = errors.New("user is not an operator")

func (c *ClerkAuthProvider) userFromClaims(r *http.Request) (model.UserID, error) {
	claims, ok := clerk.SessionClaimsFromContext(r.Context())
	if !ok {
		return "", errors.New("failed to get session claims from context")
	}
	id := model.UserID(claims.Subject)
	if len(c.operators) > 0 && !c.operators[id] {
		return "", ErrNotOperator
	}
	return id, nil
}

func (c *ClerkAuthProvider) GetUserIDFromSession(r *http.Request) (model.UserID, error) {
	if id, ok := UserIDFromContext(r.Context()); ok {
		return id, nil
	}
	return "", ErrNoSession
}

func (c *ClerkAuthProvider) EnforceUserAndGetID(w http.ResponseWriter, r *http.Request) (model.UserID, error) {
	id, err := c.GetUserIDFromSession(r)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Unauthorized access attempt")
		unauthorized(w, c.signInURL)
		return "", err
	}
	return id, nil
}

func (c *ClerkAuthProvider) LoginURL() string {
	return c.signInURL
}
