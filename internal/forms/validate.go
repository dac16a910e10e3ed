// Package forms handles the contact and newsletter forms: validation,
// delivery to a submission backend and the toast that reports the outcome.
package forms

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/debemdeboas/the-showcase/internal/model"
)

const (
	MsgRequired     = "Please fill in all required fields"
	MsgInvalidEmail = "Please enter a valid email address"
)

// Local part, "@", and a domain containing a dot. Not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

var contactFields = []string{"name", "email", "message"}

// ValidateContact returns exactly the name, email and message fields, with
// the values as submitted. Whitespace only counts as missing.
func ValidateContact(form url.Values) (map[string]string, error) {
	fields := make(map[string]string, len(contactFields))
	for _, name := range contactFields {
		v := form.Get(name)
		if strings.TrimSpace(v) == "" {
			return nil, &ValidationError{Field: name, Message: MsgRequired}
		}
		fields[name] = v
	}
	if !ValidEmail(fields["email"]) {
		return nil, &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	return fields, nil
}

// ValidateNewsletter returns the single email field.
func ValidateNewsletter(form url.Values) (map[string]string, error) {
	email := form.Get("email")
	if !ValidEmail(email) {
		return nil, &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	return map[string]string{"email": email}, nil
}

// Validator returns the validation rule for kind.
func Validator(kind model.FormKind) func(url.Values) (map[string]string, error) {
	if kind == model.FormNewsletter {
		return ValidateNewsletter
	}
	return ValidateContact
}
