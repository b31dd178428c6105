package models

import (
	"errors"
	"fmt"
)

// NotFoundError covers any referenced record that does not exist.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ValidationError marks bad client input so handlers can answer 400 instead
// of a blanket 500.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

// ConflictError marks a request that collides with existing state, such as
// registering an already-used email.
type ConflictError struct {
	Msg string
}

func (e ConflictError) Error() string { return e.Msg }

// ExhaustedError is returned when a purchase would take a route's seat
// counter below zero. The purchase must fail and persist nothing.
type ExhaustedError struct {
	RouteID int
}

func (e ExhaustedError) Error() string {
	return fmt.Sprintf("route %d has no available seats", e.RouteID)
}

// StorageError wraps an unrecoverable I/O fault from the record store. The
// request fails, the process keeps serving.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

// CorruptionError means the persisted collection could not be decoded.
// Malformed content is never silently coerced to an empty collection.
type CorruptionError struct {
	Path string
	Err  error
}

func (e CorruptionError) Error() string {
	return fmt.Sprintf("corrupt collection %s: %v", e.Path, e.Err)
}

func (e CorruptionError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsExhausted(err error) bool {
	var target ExhaustedError
	return errors.As(err, &target)
}
