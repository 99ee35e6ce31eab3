// Package dataloader bridges the eagerload engine and DataLoader-style
// batch protocols such as:
//   - github.com/graph-gophers/dataloader/v7
//   - github.com/vikstrous/dataloadgen
//
// DataLoader batch functions return one result per requested key, in key
// order, while an eagerload.Loader returns a flat row set matched to
// parents by the engine. FromBatchFunc and ToBatchFunc convert between
// the two, and OrderByKeys/GroupByKey implement the per-key ordering
// those protocols require.
//
// The package also carries request-scoped loader bundles on the context:
//
//	ctx := dataloader.WithLoaders(r.Context(), &Loaders{
//	    Posts:    postLoader,
//	    Profiles: profileLoader,
//	})
//	...
//	loaders := dataloader.For[*Loaders](ctx)
package dataloader

import (
	"context"
	"errors"

	"github.com/syssam/eagerload"
)

// ErrNotFound is the per-key error reported for keys without a matching
// entity in a batch result.
var ErrNotFound = errors.New("dataloader: entity not found")

// KeyFunc extracts a key from an entity.
type KeyFunc[K comparable, V any] func(V) K

// BatchFunc is a DataLoader-style batch function: one result and one
// error slot per requested key, in key order. By convention a single
// error with no values fails the whole batch.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, []error)

// FromBatchFunc adapts a DataLoader-style batch function into an
// eagerload Loader. Per-key ErrNotFound entries become plain absences
// (the engine decides whether an absence is legal for the edge's
// cardinality); any other per-key error, or a whole-batch error, fails
// the load.
func FromBatchFunc[K comparable, V any](fn BatchFunc[K, V]) eagerload.LoaderFunc[K, V] {
	return func(ctx context.Context, keys []K) ([]V, error) {
		values, errs := fn(ctx, keys)
		if len(values) == 0 && len(errs) == 1 && errs[0] != nil {
			return nil, errs[0]
		}
		out := make([]V, 0, len(values))
		for i, v := range values {
			if i < len(errs) && errs[i] != nil {
				if errors.Is(errs[i], ErrNotFound) {
					continue
				}
				return nil, errs[i]
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// ToBatchFunc adapts an eagerload Loader into a DataLoader-style batch
// function, reporting ErrNotFound for keys the loader returned no row
// for.
func ToBatchFunc[K comparable, V any](loader eagerload.Loader[K, V], keyFn KeyFunc[K, V]) BatchFunc[K, V] {
	return func(ctx context.Context, keys []K) ([]V, []error) {
		values, err := loader.Load(ctx, keys)
		if err != nil {
			return nil, []error{err}
		}
		return OrderByKeys(keys, values, keyFn)
	}
}

// OrderByKeys reorders entities to match the order of requested keys.
// Missing entities are represented as zero values with corresponding
// ErrNotFound entries. The result and error slices always have the same
// length as keys, as the DataLoader contract requires.
func OrderByKeys[K comparable, V any](keys []K, values []V, keyFn KeyFunc[K, V]) ([]V, []error) {
	lookup := make(map[K]V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, key := range keys {
		if v, ok := lookup[key]; ok {
			result[i] = v
		} else {
			errs[i] = ErrNotFound
		}
	}
	return result, errs
}

// GroupByKey groups entities by a key function, preserving input order
// within each group. Useful for one-to-many edges where multiple entities
// share the same foreign key.
func GroupByKey[K comparable, V any](values []V, keyFn KeyFunc[K, V]) map[K][]V {
	result := make(map[K][]V)
	for _, v := range values {
		key := keyFn(v)
		result[key] = append(result[key], v)
	}
	return result
}

// OrderGroupsByKeys reorders grouped entities to match the order of
// requested keys; ordered[i] holds the group for keys[i], nil when the
// key has no group.
func OrderGroupsByKeys[K comparable, V any](keys []K, groups map[K][]V) [][]V {
	result := make([][]V, len(keys))
	for i, key := range keys {
		result[i] = groups[key]
	}
	return result
}

// ctxKey is the context key for storing loader bundles.
type ctxKey struct{}

// WithLoaders injects a request-scoped loader bundle into the context.
// This is the engine's channel for caller-owned, per-request resources:
// the engine itself only threads the context through to Loader calls.
func WithLoaders[T any](ctx context.Context, loaders T) context.Context {
	return context.WithValue(ctx, ctxKey{}, loaders)
}

// For extracts the loader bundle of type T from the context, returning
// the zero value when none was injected.
func For[T any](ctx context.Context) T {
	v, _ := ctx.Value(ctxKey{}).(T)
	return v
}
