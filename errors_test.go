package eagerload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotLoadedError(t *testing.T) {
	t.Parallel()

	err := NewNotLoadedError("posts")
	assert.Equal(t, `eagerload: edge "posts" was not loaded`, err.Error())
	assert.Equal(t, "posts", err.Edge())
	assert.Equal(t, "eagerload: edge was not loaded", (&NotLoadedError{}).Error())

	assert.True(t, IsNotLoaded(err))
	assert.True(t, errors.Is(err, ErrNotLoaded))
	assert.True(t, IsNotLoaded(fmt.Errorf("reading edge: %w", err)))
	assert.False(t, IsNotLoaded(nil))
	assert.False(t, IsNotLoaded(errors.New("other")))
}

func TestCardinalityError(t *testing.T) {
	t.Parallel()

	err := NewCardinalityError("account", 42, 0)
	assert.Equal(t, `eagerload: edge "account" expected one row for key 42, got 0`, err.Error())
	assert.Equal(t, "account", err.Edge())
	assert.Equal(t, 42, err.Key())
	assert.Zero(t, err.Count())

	assert.True(t, IsCardinality(err))
	assert.True(t, errors.Is(err, ErrCardinality))
	assert.True(t, IsCardinality(fmt.Errorf("loading: %w", err)))
	assert.False(t, IsCardinality(nil))
	assert.False(t, IsCardinality(NewNotLoadedError("account")))
}

func TestFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	err := NewFetchError("posts", cause)
	assert.Equal(t, `eagerload: fetching edge "posts": dial tcp: connection refused`, err.Error())
	assert.Equal(t, "posts", err.Edge())

	assert.True(t, IsFetch(err))
	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.False(t, IsFetch(nil))
	assert.False(t, IsFetch(cause))
}

func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	notLoaded := NewNotLoadedError("e")
	cardinality := NewCardinalityError("e", 1, 2)

	assert.False(t, IsCardinality(notLoaded))
	assert.False(t, IsNotLoaded(cardinality))
	assert.False(t, errors.Is(notLoaded, ErrCardinality))
	assert.False(t, errors.Is(cardinality, ErrNotLoaded))
}
