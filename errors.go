package eagerload

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for edge loading.
var (
	// ErrNotLoaded is returned when reading an edge slot that was never
	// eager-loaded.
	ErrNotLoaded = errors.New("eagerload: edge not loaded")

	// ErrCardinality is returned when a fetch violates an edge's
	// cardinality, e.g. a has-one edge matching zero or multiple rows.
	ErrCardinality = errors.New("eagerload: edge not singular")
)

// NotLoadedError represents an error when accessing an edge slot
// before the edge was eager-loaded.
type NotLoadedError struct {
	edge string
}

// Error returns the error string.
func (e *NotLoadedError) Error() string {
	if e.edge == "" {
		return "eagerload: edge was not loaded"
	}
	return fmt.Sprintf("eagerload: edge %q was not loaded", e.edge)
}

// Is reports whether the target error matches NotLoadedError.
// This allows errors.Is(notLoadedErr, ErrNotLoaded) to return true.
func (e *NotLoadedError) Is(err error) bool {
	return err == ErrNotLoaded
}

// Edge returns the edge name, if known.
func (e *NotLoadedError) Edge() string {
	return e.edge
}

// NewNotLoadedError returns a new NotLoadedError for the given edge name.
func NewNotLoadedError(edge string) *NotLoadedError {
	return &NotLoadedError{edge: edge}
}

// IsNotLoaded returns true if the error is a NotLoadedError.
func IsNotLoaded(err error) bool {
	if err == nil {
		return false
	}
	var e *NotLoadedError
	return errors.As(err, &e) || errors.Is(err, ErrNotLoaded)
}

// CardinalityError represents a data-integrity violation where a batched
// fetch returned the wrong number of rows for one lookup key: zero or
// multiple rows for a has-one edge, or multiple rows for an optional-one
// edge. It is never coerced to an absent value or a "first match".
type CardinalityError struct {
	edge  string
	key   any
	count int
}

// Error returns the error string.
func (e *CardinalityError) Error() string {
	return fmt.Sprintf("eagerload: edge %q expected one row for key %v, got %d", e.edge, e.key, e.count)
}

// Is reports whether the target error matches CardinalityError.
// This allows errors.Is(cardinalityErr, ErrCardinality) to return true.
func (e *CardinalityError) Is(err error) bool {
	return err == ErrCardinality
}

// Edge returns the edge name.
func (e *CardinalityError) Edge() string {
	return e.edge
}

// Key returns the lookup key whose row count was invalid.
func (e *CardinalityError) Key() any {
	return e.key
}

// Count returns the number of rows the fetch produced for the key.
func (e *CardinalityError) Count() int {
	return e.count
}

// NewCardinalityError returns a new CardinalityError for the given edge,
// lookup key and observed row count.
func NewCardinalityError(edge string, key any, count int) *CardinalityError {
	return &CardinalityError{edge: edge, key: key, count: count}
}

// IsCardinality returns true if the error is a CardinalityError.
func IsCardinality(err error) bool {
	if err == nil {
		return false
	}
	var e *CardinalityError
	return errors.As(err, &e) || errors.Is(err, ErrCardinality)
}

// FetchError wraps an error raised by a Loader with the edge being fetched.
// It is propagated verbatim to the caller; the engine performs no retries.
type FetchError struct {
	edge string
	err  error
}

// Error returns the error string.
func (e *FetchError) Error() string {
	return fmt.Sprintf("eagerload: fetching edge %q: %v", e.edge, e.err)
}

// Unwrap returns the underlying Loader error.
func (e *FetchError) Unwrap() error {
	return e.err
}

// Edge returns the edge whose fetch failed.
func (e *FetchError) Edge() string {
	return e.edge
}

// NewFetchError returns a new FetchError for the given edge.
func NewFetchError(edge string, err error) *FetchError {
	return &FetchError{edge: edge, err: err}
}

// IsFetch returns true if the error is a FetchError.
func IsFetch(err error) bool {
	if err == nil {
		return false
	}
	var e *FetchError
	return errors.As(err, &e)
}
