package helpers

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrRejectedInput = errors.New("rejected input")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
)

// InvalidIDError is returned when a path identifier is not a valid ObjectID.
type InvalidIDError struct {
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("Invalid ID: %s", e.Value)
}

func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}

// RejectedInputError is returned by the sanitizer and the update schema checks.
type RejectedInputError struct {
	Field  string
	Reason string
}

func (e *RejectedInputError) Error() string {
	return e.Reason
}

func (e *RejectedInputError) Is(target error) bool {
	return target == ErrRejectedInput
}

func RejectedInput(field, reason string) error {
	return &RejectedInputError{Field: field, Reason: reason}
}

// NotFoundError names the resource that was not matched, e.g. "Event" or "Poster".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}
