// Package errs defines the error kinds surfaced by the sale and purchase
// workflows. Every kind maps to a stable machine-readable string so the HTTP
// layer can render it without inspecting messages.
package errs

import (
	"errors"
	"fmt"
)

// Kinds reported to API clients.
const (
	KindMalformedRequest  = "malformed_request"
	KindNotFound          = "not_found"
	KindInsufficientStock = "insufficient_stock"
	KindPersistence       = "persistence"
	KindInternal          = "internal"
)

// MalformedRequestError reports a missing or invalid input field.
type MalformedRequestError struct {
	Field  string
	Reason string
}

func (e *MalformedRequestError) Error() string {
	if e.Field == "" {
		return "malformed request: " + e.Reason
	}
	return fmt.Sprintf("malformed request: %s: %s", e.Field, e.Reason)
}

func (e *MalformedRequestError) Kind() string { return KindMalformedRequest }

// Malformed is shorthand for a MalformedRequestError.
func Malformed(field, reason string) error {
	return &MalformedRequestError{Field: field, Reason: reason}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Kind() string { return KindNotFound }

// NotFound is shorthand for a NotFoundError.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InsufficientStockError reports a line that asks for more units than the
// item holds. Requested is the total over every line naming the item.
type InsufficientStockError struct {
	ItemID    int64
	ItemName  string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: available=%d, requested=%d",
		e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Kind() string { return KindInsufficientStock }

// PersistenceError wraps a failure of the underlying store. The transaction
// it happened in has been rolled back.
type PersistenceError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Kind() string { return KindPersistence }

// Persistence wraps err unless it already carries a kind.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

type kinded interface {
	Kind() string
}

// KindOf returns the kind of the first error in err's chain that has one.
func KindOf(err error) string {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// IsRetryable reports whether err is a persistence failure worth retrying
// as a whole transaction.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Retryable
}
