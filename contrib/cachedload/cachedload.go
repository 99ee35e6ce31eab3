// Package cachedload decorates an eagerload.Loader with a shared,
// cross-request cache of fetched key groups.
//
// Unlike the engine's per-request eagerload.Cache, the Store here
// outlives single requests and may live out of process (Redis,
// Memcached); groups are encoded with msgpack. Only keys missing from
// the store reach the inner loader:
//
//	posts := cachedload.New(postLoader, store,
//	    func(p *Post) int { return p.AuthorID },
//	    cachedload.WithTTL[int, *Post](time.Minute),
//	)
package cachedload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/eagerload"
)

// Store is the interface for the shared cache backend. Implement it with
// your preferred caching solution; an in-memory implementation is
// provided by NewMemoryStore.
type Store interface {
	// Get retrieves a value from the store.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the store.
	Delete(ctx context.Context, key string) error
}

// Loader wraps an inner eagerload.Loader with a Store. One store entry
// holds the msgpack-encoded group of rows for one lookup key; empty
// groups are stored too, so known-empty keys are not re-fetched until
// they expire or are invalidated.
type Loader[K comparable, C any] struct {
	inner   eagerload.Loader[K, C]
	store   Store
	keyFn   func(C) K
	ttl     time.Duration
	prefix  string
	keyText func(K) string
}

// Option configures a Loader.
type Option[K comparable, C any] func(*Loader[K, C])

// WithTTL sets the expiry for stored groups. Zero (the default) means no
// expiry.
func WithTTL[K comparable, C any](ttl time.Duration) Option[K, C] {
	return func(l *Loader[K, C]) { l.ttl = ttl }
}

// WithPrefix namespaces the store keys, e.g. "posts:".
func WithPrefix[K comparable, C any](prefix string) Option[K, C] {
	return func(l *Loader[K, C]) { l.prefix = prefix }
}

// WithKeyText overrides how lookup keys are rendered into store keys.
// The default uses fmt.Sprint.
func WithKeyText[K comparable, C any](fn func(K) string) Option[K, C] {
	return func(l *Loader[K, C]) { l.keyText = fn }
}

// New wraps inner with the given store. keyFn recovers the lookup key
// from a fetched row, so rows can be grouped per key for storage; it must
// agree with the child-key extractor of the edge the loader serves.
func New[K comparable, C any](inner eagerload.Loader[K, C], store Store, keyFn func(C) K, opts ...Option[K, C]) *Loader[K, C] {
	l := &Loader[K, C]{
		inner:   inner,
		store:   store,
		keyFn:   keyFn,
		keyText: func(k K) string { return fmt.Sprint(k) },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the rows for keys, taking every group present in the
// store and fetching only the missing keys from the inner loader. Newly
// fetched groups (including empty ones) are written back to the store.
func (l *Loader[K, C]) Load(ctx context.Context, keys []K) ([]C, error) {
	var (
		out     []C
		missing []K
	)
	for _, k := range keys {
		buf, err := l.store.Get(ctx, l.storeKey(k))
		if err != nil {
			return nil, fmt.Errorf("cachedload: reading key %v: %w", k, err)
		}
		if buf == nil {
			missing = append(missing, k)
			continue
		}
		var group []C
		if err := msgpack.Unmarshal(buf, &group); err != nil {
			return nil, fmt.Errorf("cachedload: decoding key %v: %w", k, err)
		}
		out = append(out, group...)
	}
	if len(missing) == 0 {
		return out, nil
	}
	rows, err := l.inner.Load(ctx, missing)
	if err != nil {
		return nil, err
	}
	groups := make(map[K][]C, len(missing))
	for _, row := range rows {
		k := l.keyFn(row)
		groups[k] = append(groups[k], row)
	}
	for _, k := range missing {
		buf, err := msgpack.Marshal(groups[k])
		if err != nil {
			return nil, fmt.Errorf("cachedload: encoding key %v: %w", k, err)
		}
		if err := l.store.Set(ctx, l.storeKey(k), buf, l.ttl); err != nil {
			return nil, fmt.Errorf("cachedload: storing key %v: %w", k, err)
		}
	}
	return append(out, rows...), nil
}

// Invalidate removes the stored groups for the given keys, typically
// after a mutation touching them.
func (l *Loader[K, C]) Invalidate(ctx context.Context, keys ...K) error {
	for _, k := range keys {
		if err := l.store.Delete(ctx, l.storeKey(k)); err != nil {
			return fmt.Errorf("cachedload: invalidating key %v: %w", k, err)
		}
	}
	return nil
}

func (l *Loader[K, C]) storeKey(k K) string {
	return l.prefix + l.keyText(k)
}

// MemoryStore is an in-process Store, suitable for tests and
// single-process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, nil
	}
	return e.value, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored groups.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
