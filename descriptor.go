package eagerload

// Kind is the cardinality of an edge.
type Kind uint8

const (
	// KindHasOne expects exactly one child per parent.
	KindHasOne Kind = iota
	// KindOptionalOne expects zero or one child per parent.
	KindOptionalOne
	// KindHasMany expects any number of children per parent.
	KindHasMany
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindHasOne:
		return "has_one"
	case KindOptionalOne:
		return "optional_one"
	case KindHasMany:
		return "has_many"
	default:
		return "unknown"
	}
}

// Edge is the non-generic view of an edge descriptor, used by the
// Registry and by callers that only need metadata.
type Edge interface {
	// Name returns the edge name.
	Name() string
	// Kind returns the edge cardinality.
	Kind() Kind
	// KeyOnParent reports which side declares the foreign key: true if
	// the parent entity carries the key of the child (the usual shape
	// for has-one edges), false if children carry the key of their
	// parent (the usual shape for has-many edges).
	KeyOnParent() bool
}

// OneEdge describes a required one-to-one edge: every parent has exactly
// one child, matched by key. Constructed with HasOne.
type OneEdge[P, C any, K comparable] struct {
	name        string
	parentKey   func(P) K
	childKey    func(C) K
	slot        func(P) *One[C]
	loader      Loader[K, C]
	keyOnParent bool
}

// HasOne declares a required one-to-one edge named name on parent type P.
// parentKey and childKey extract the matching key from each side; they
// must be pure and consistent for the same logical entities. slot
// addresses the parent's edge slot, and loader batch-fetches children by
// key. By default the parent side owns the foreign key.
func HasOne[P, C any, K comparable](
	name string,
	parentKey func(P) K,
	childKey func(C) K,
	slot func(P) *One[C],
	loader Loader[K, C],
) *OneEdge[P, C, K] {
	return &OneEdge[P, C, K]{
		name:        name,
		parentKey:   parentKey,
		childKey:    childKey,
		slot:        slot,
		loader:      loader,
		keyOnParent: true,
	}
}

// ForeignKeyOnChild marks the child side as the owner of the foreign key.
func (e *OneEdge[P, C, K]) ForeignKeyOnChild() *OneEdge[P, C, K] {
	e.keyOnParent = false
	return e
}

// Name returns the edge name.
func (e *OneEdge[P, C, K]) Name() string { return e.name }

// Kind returns KindHasOne.
func (e *OneEdge[P, C, K]) Kind() Kind { return KindHasOne }

// KeyOnParent reports whether the parent side owns the foreign key.
func (e *OneEdge[P, C, K]) KeyOnParent() bool { return e.keyOnParent }

// Get returns the loaded child of parent, or a *NotLoadedError carrying
// the edge name if the edge was not eager-loaded.
func (e *OneEdge[P, C, K]) Get(parent P) (C, error) {
	s := e.slot(parent)
	if !s.loaded {
		var zero C
		return zero, NewNotLoadedError(e.name)
	}
	return s.value, nil
}

// OptionEdge describes an optional one-to-one edge: every parent has zero
// or one child. Constructed with OptionalOne.
type OptionEdge[P, C any, K comparable] struct {
	name        string
	parentKey   func(P) (K, bool)
	childKey    func(C) K
	slot        func(P) *Option[C]
	loader      Loader[K, C]
	keyOnParent bool
}

// OptionalOne declares an optional one-to-one edge named name on parent
// type P. parentKey reports ok=false when the parent has no key at all
// (e.g. a NULL foreign key); such parents are marked loaded-absent without
// ever reaching the Loader. By default the parent side owns the foreign
// key.
func OptionalOne[P, C any, K comparable](
	name string,
	parentKey func(P) (K, bool),
	childKey func(C) K,
	slot func(P) *Option[C],
	loader Loader[K, C],
) *OptionEdge[P, C, K] {
	return &OptionEdge[P, C, K]{
		name:        name,
		parentKey:   parentKey,
		childKey:    childKey,
		slot:        slot,
		loader:      loader,
		keyOnParent: true,
	}
}

// ForeignKeyOnChild marks the child side as the owner of the foreign key.
func (e *OptionEdge[P, C, K]) ForeignKeyOnChild() *OptionEdge[P, C, K] {
	e.keyOnParent = false
	return e
}

// Name returns the edge name.
func (e *OptionEdge[P, C, K]) Name() string { return e.name }

// Kind returns KindOptionalOne.
func (e *OptionEdge[P, C, K]) Kind() Kind { return KindOptionalOne }

// KeyOnParent reports whether the parent side owns the foreign key.
func (e *OptionEdge[P, C, K]) KeyOnParent() bool { return e.keyOnParent }

// Get returns the loaded child of parent and whether one exists, or a
// *NotLoadedError carrying the edge name if the edge was not eager-loaded.
func (e *OptionEdge[P, C, K]) Get(parent P) (C, bool, error) {
	s := e.slot(parent)
	if !s.loaded {
		var zero C
		return zero, false, NewNotLoadedError(e.name)
	}
	return s.value, s.ok, nil
}

// ManyEdge describes a one-to-many edge: every parent has an ordered list
// of children. Constructed with HasMany.
type ManyEdge[P, C any, K comparable] struct {
	name        string
	parentKey   func(P) K
	childKey    func(C) K
	slot        func(P) *Many[C]
	loader      Loader[K, C]
	keyOnParent bool
}

// HasMany declares a one-to-many edge named name on parent type P.
// childKey typically extracts the child's foreign key pointing back at
// the parent, and parentKey the parent's primary key. By default the
// child side owns the foreign key.
func HasMany[P, C any, K comparable](
	name string,
	parentKey func(P) K,
	childKey func(C) K,
	slot func(P) *Many[C],
	loader Loader[K, C],
) *ManyEdge[P, C, K] {
	return &ManyEdge[P, C, K]{
		name:      name,
		parentKey: parentKey,
		childKey:  childKey,
		slot:      slot,
		loader:    loader,
	}
}

// ForeignKeyOnParent marks the parent side as the owner of the foreign key.
func (e *ManyEdge[P, C, K]) ForeignKeyOnParent() *ManyEdge[P, C, K] {
	e.keyOnParent = true
	return e
}

// Name returns the edge name.
func (e *ManyEdge[P, C, K]) Name() string { return e.name }

// Kind returns KindHasMany.
func (e *ManyEdge[P, C, K]) Kind() Kind { return KindHasMany }

// KeyOnParent reports whether the parent side owns the foreign key.
func (e *ManyEdge[P, C, K]) KeyOnParent() bool { return e.keyOnParent }

// Get returns the loaded children of parent in fetch order, or a
// *NotLoadedError carrying the edge name if the edge was not eager-loaded.
func (e *ManyEdge[P, C, K]) Get(parent P) ([]C, error) {
	s := e.slot(parent)
	if !s.loaded {
		return nil, NewNotLoadedError(e.name)
	}
	return s.values, nil
}

var (
	_ Edge = (*OneEdge[any, any, int])(nil)
	_ Edge = (*OptionEdge[any, any, int])(nil)
	_ Edge = (*ManyEdge[any, any, int])(nil)
)
