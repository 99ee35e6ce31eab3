package eagerload

import "context"

// This file implements the per-edge planning pass: partition the parents
// into loaded and pending, deduplicate the pending lookup keys, fetch the
// missing key groups with at most one Loader call, and distribute the
// rows back onto the pending parents' slots. The slot mutation is
// write-once, so re-running a pass over the same parents is free.

// fetchGroups resolves the given deduplicated lookup keys to key groups,
// consulting the request cache on ctx (if any) before issuing a single
// Loader call for the keys still missing. Fetched groups, including empty
// ones, are recorded back into the cache. Rows whose child key was not
// requested are dropped.
func fetchGroups[K comparable, C any](ctx context.Context, id edgeIdent, loader Loader[K, C], childKey func(C) K, keys []K) (map[K][]C, error) {
	groups := make(map[K][]C, len(keys))
	missing := keys
	cache, cached := CacheFromContext(ctx)
	if cached {
		missing = missing[:0:0]
		for _, k := range keys {
			if rows, ok := cacheGet[K, C](cache, id, k); ok {
				groups[k] = rows
			} else {
				missing = append(missing, k)
			}
		}
	}
	if len(missing) == 0 {
		return groups, nil
	}
	rows, err := loader.Load(ctx, missing)
	if err != nil {
		return nil, NewFetchError(id.name, err)
	}
	fetched := make(map[K][]C, len(missing))
	for _, row := range rows {
		k := childKey(row)
		fetched[k] = append(fetched[k], row)
	}
	for _, k := range missing {
		group := fetched[k]
		if cached {
			cachePut(cache, id, k, group)
		}
		groups[k] = group
	}
	return groups, nil
}

// dedupeKeys returns keys with duplicates removed, preserving first-seen
// order.
func dedupeKeys[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Load populates the edge on every parent whose slot is still unloaded,
// issuing at most one Loader call no matter how many parents are given.
// Parents already loaded are skipped. Every pending key must match exactly
// one row; otherwise a *CardinalityError is returned and no slot of this
// pass is mutated.
func (e *OneEdge[P, C, K]) Load(ctx context.Context, parents []P) error {
	var (
		pending []P
		keys    []K
	)
	for _, p := range parents {
		if e.slot(p).loaded {
			continue
		}
		pending = append(pending, p)
		keys = append(keys, e.parentKey(p))
	}
	if len(pending) == 0 {
		return nil
	}
	keys = dedupeKeys(keys)
	groups, err := fetchGroups(ctx, identOf[P](e.name), e.loader, e.childKey, keys)
	if err != nil {
		return err
	}
	// Validate cardinality for every key before touching any slot, so a
	// bad batch never leaves this edge half-populated.
	for _, k := range keys {
		if n := len(groups[k]); n != 1 {
			return NewCardinalityError(e.name, k, n)
		}
	}
	for _, p := range pending {
		e.slot(p).set(groups[e.parentKey(p)][0])
	}
	return nil
}

// Load populates the edge on every parent whose slot is still unloaded,
// issuing at most one Loader call. Parents whose key extractor reports no
// key are marked loaded-absent without reaching the Loader, as is every
// pending parent whenever no parent contributes a key at all. A key
// matching multiple rows yields a *CardinalityError with no slot of this
// pass mutated; a key matching no rows loads as absent.
func (e *OptionEdge[P, C, K]) Load(ctx context.Context, parents []P) error {
	var (
		pending []P
		keys    []K
	)
	for _, p := range parents {
		if e.slot(p).loaded {
			continue
		}
		pending = append(pending, p)
		if k, ok := e.parentKey(p); ok {
			keys = append(keys, k)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if len(keys) == 0 {
		for _, p := range pending {
			e.slot(p).setAbsent()
		}
		return nil
	}
	keys = dedupeKeys(keys)
	groups, err := fetchGroups(ctx, identOf[P](e.name), e.loader, e.childKey, keys)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if n := len(groups[k]); n > 1 {
			return NewCardinalityError(e.name, k, n)
		}
	}
	for _, p := range pending {
		s := e.slot(p)
		k, ok := e.parentKey(p)
		if !ok {
			s.setAbsent()
			continue
		}
		if rows := groups[k]; len(rows) == 1 {
			s.set(rows[0])
		} else {
			s.setAbsent()
		}
	}
	return nil
}

// Load populates the edge on every parent whose slot is still unloaded,
// issuing at most one Loader call. Each parent receives the full group of
// rows matching its key, in the order the Loader returned them; a key
// with no rows loads as an empty list. Any row count is valid.
func (e *ManyEdge[P, C, K]) Load(ctx context.Context, parents []P) error {
	var (
		pending []P
		keys    []K
	)
	for _, p := range parents {
		if e.slot(p).loaded {
			continue
		}
		pending = append(pending, p)
		keys = append(keys, e.parentKey(p))
	}
	if len(pending) == 0 {
		return nil
	}
	keys = dedupeKeys(keys)
	groups, err := fetchGroups(ctx, identOf[P](e.name), e.loader, e.childKey, keys)
	if err != nil {
		return err
	}
	for _, p := range pending {
		e.slot(p).set(groups[e.parentKey(p)])
	}
	return nil
}

// collect gathers the loaded children of the given parents for plan
// descent, one group per distinct parent key so that parents sharing a
// key do not duplicate their children in the next level's parent set.

func (e *OneEdge[P, C, K]) collect(parents []P) []C {
	seen := make(map[K]struct{}, len(parents))
	var children []C
	for _, p := range parents {
		k := e.parentKey(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if s := e.slot(p); s.loaded {
			children = append(children, s.value)
		}
	}
	return children
}

func (e *OptionEdge[P, C, K]) collect(parents []P) []C {
	seen := make(map[K]struct{}, len(parents))
	var children []C
	for _, p := range parents {
		k, ok := e.parentKey(p)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if s := e.slot(p); s.loaded && s.ok {
			children = append(children, s.value)
		}
	}
	return children
}

func (e *ManyEdge[P, C, K]) collect(parents []P) []C {
	seen := make(map[K]struct{}, len(parents))
	var children []C
	for _, p := range parents {
		k := e.parentKey(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if s := e.slot(p); s.loaded {
			children = append(children, s.values...)
		}
	}
	return children
}
