package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrNotFound   = stderrors.New("resource not found")
	ErrConflict   = stderrors.New("resource conflict")
	ErrOutOfRange = stderrors.New("index out of range")
	ErrStore      = stderrors.New("store failure")
)

// NotFoundError is returned when a form or response lookup misses.
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictReason names the sharing rule a submission violated.
type ConflictReason string

const (
	ReasonNotShareable     ConflictReason = "not_shareable"
	ReasonExpired          ConflictReason = "expired"
	ReasonAlreadySubmitted ConflictReason = "already_submitted"
	ReasonSaveInProgress   ConflictReason = "save_in_progress"
)

// ConflictError is a sharing-rule violation.
type ConflictError struct {
	Reason  ConflictReason `json:"reason"`
	Message string         `json:"message"`
}

func NewConflictError(reason ConflictReason, message string) *ConflictError {
	return &ConflictError{Reason: reason, Message: message}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict (%s): %s", e.Reason, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// RangeError is returned when a reorder position falls outside the sequence.
type RangeError struct {
	Op     string `json:"op"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Length int    `json:"length"`
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: positions %d -> %d out of range for length %d", e.Op, e.From, e.To, e.Length)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// IndexError is returned when an element is addressed by a position that does not exist.
type IndexError struct {
	Field  string `json:"field"`
	Index  int    `json:"index"`
	Length int    `json:"length"`
}

func NewIndexError(field string, index, length int) *IndexError {
	return &IndexError{Field: field, Index: index, Length: length}
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0,%d)", e.Field, e.Index, e.Length)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }

// StoreError wraps a failure of the persistence or cache collaborator.
// Its message is never shown to clients.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }
