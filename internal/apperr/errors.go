// Package apperr holds the sentinel errors shared by the service and transport layers.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrUnknownField = errors.New("unknown field")
	ErrNotConfirmed = errors.New("not confirmed")
)
