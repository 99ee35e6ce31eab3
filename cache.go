package eagerload

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// Cache is a request-scoped cache of fetched key groups, consulted by the
// planner before invoking a Loader. It keeps different branches of one
// planning pass from re-fetching children whose keys were already seen,
// e.g. two entity types pointing at the same set of users.
//
// Entries are keyed by (parent type, edge name, lookup key) and, like edge
// slots, are write-once: a stored group is stable for the rest of the
// request. A nil *Cache performs no caching. Cache is safe for concurrent
// use.
type Cache struct {
	mu      sync.RWMutex
	entries map[entryKey]any
	hits    atomic.Int64
	misses  atomic.Int64
}

// edgeIdent identifies one edge for cache scoping. Edge names are not
// unique across entity types (a User and a Post may both declare a
// "comments" edge keyed by different columns), so the parent type
// participates in the key.
type edgeIdent struct {
	parent reflect.Type
	name   string
}

func identOf[P any](name string) edgeIdent {
	return edgeIdent{parent: reflect.TypeOf((*P)(nil)).Elem(), name: name}
}

type entryKey struct {
	ident edgeIdent
	key   any
}

// NewCache returns an empty request cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[entryKey]any)}
}

// lookup returns the stored value for k.
func (c *Cache) lookup(k entryKey) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[k]
	return v, ok
}

// store records the value for k. The first write wins.
func (c *Cache) store(k entryKey, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; ok {
		return
	}
	c.entries[k] = v
}

// Hits returns the number of cache lookups that found an entry.
func (c *Cache) Hits() int64 { return c.hits.Load() }

// Misses returns the number of cache lookups that found nothing.
func (c *Cache) Misses() int64 { return c.misses.Load() }

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (c *Cache) HitRate() float64 {
	hits, misses := float64(c.Hits()), float64(c.Misses())
	if hits == 0 && misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

// Len returns the number of cached key groups.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheGet returns the cached group for one (edge, key) pair and records
// a hit or miss. An entry holding a different row type counts as a miss.
func cacheGet[K comparable, C any](c *Cache, id edgeIdent, key K) ([]C, bool) {
	v, ok := c.lookup(entryKey{ident: id, key: key})
	if ok {
		if rows, typed := v.([]C); typed {
			c.hits.Add(1)
			return rows, true
		}
	}
	c.misses.Add(1)
	return nil, false
}

// cachePut stores the fetched group for one (edge, key) pair. An empty or
// nil group is stored too, so a key known to have no rows is not fetched
// again by a later branch.
func cachePut[K comparable, C any](c *Cache, id edgeIdent, key K, rows []C) {
	c.store(entryKey{ident: id, key: key}, rows)
}

// cacheCtxKey is the context key for carrying a request cache.
type cacheCtxKey struct{}

// WithCache returns a context carrying the given request cache. Every
// load issued with the returned context consults the cache first and
// records fetched groups into it. The caller keeps the *Cache to read
// Hits/Misses afterwards.
//
//	cache := eagerload.NewCache()
//	ctx = eagerload.WithCache(ctx, cache)
func WithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, cacheCtxKey{}, c)
}

// CacheFromContext returns the request cache carried by ctx, if any.
func CacheFromContext(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(cacheCtxKey{}).(*Cache)
	return c, ok && c != nil
}
