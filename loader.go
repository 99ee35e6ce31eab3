package eagerload

import "context"

// Loader batch-fetches child entities by their lookup keys. It is the
// engine's only reach into storage, and the only point where a load can
// block or fail.
//
// The engine guarantees that keys is never empty and contains no
// duplicates. Implementations must not assume any key order and may return
// rows in any order; the order they choose is the order children are
// attached to each parent. A key with no matching rows is simply absent
// from the result; whether that is an error depends on the edge's
// cardinality and is decided by the engine, not the Loader.
//
// Retries, timeouts and internal parallelism are the implementation's
// business. The engine calls Load at most once per edge per planning pass
// and propagates the first error verbatim.
type Loader[K comparable, C any] interface {
	Load(ctx context.Context, keys []K) ([]C, error)
}

// LoaderFunc is an adapter to allow the use of ordinary functions as
// Loaders.
type LoaderFunc[K comparable, C any] func(ctx context.Context, keys []K) ([]C, error)

// Load calls f(ctx, keys).
func (f LoaderFunc[K, C]) Load(ctx context.Context, keys []K) ([]C, error) {
	return f(ctx, keys)
}
