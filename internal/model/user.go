package model

// UserID identifies the operator allowed to edit the page.
type UserID string
