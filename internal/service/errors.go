package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no message exists for the owner/message pair, or the
	// caller is not allowed to know one does.
	ErrNotFound = errors.New("message not found")
	// ErrAlreadyReplied rejects a second reply to the same message.
	ErrAlreadyReplied = errors.New("message already has a reply")
	// ErrNoCredential rejects operations that require a bearer credential
	// when none was supplied.
	ErrNoCredential = errors.New("missing credential")
	// ErrInvalidToken means the verifier rejected the supplied credential.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotOwner means the credential is valid but its subject is not the
	// board owner.
	ErrNotOwner = errors.New("not the board owner")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func missingField(field string) error {
	return &ValidationError{Field: field}
}
