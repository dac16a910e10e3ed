package model

import "time"

// FormKind names the static form a submission came from.
type FormKind string

const (
	FormContact    FormKind = "contact"
	FormNewsletter FormKind = "newsletter"
)

type SubmissionID string

// Submission is a validated form payload as handed to the submission backend.
type Submission struct {
	ID        SubmissionID
	Kind      FormKind
	Fields    map[string]string
	CreatedAt time.Time
}
