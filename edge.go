package eagerload

// One is an edge slot holding exactly one child entity.
// The zero value is unloaded.
type One[C any] struct {
	value  C
	loaded bool
}

// Loaded reports whether the slot has been populated.
func (s *One[C]) Loaded() bool { return s.loaded }

// Value returns the child entity, or a *NotLoadedError if the edge
// was never eager-loaded.
func (s *One[C]) Value() (C, error) {
	if !s.loaded {
		var zero C
		return zero, &NotLoadedError{}
	}
	return s.value, nil
}

// set transitions the slot to loaded. Loaded slots are never overwritten.
func (s *One[C]) set(v C) {
	if s.loaded {
		return
	}
	s.value, s.loaded = v, true
}

// Option is an edge slot holding zero or one child entity.
// The zero value is unloaded.
type Option[C any] struct {
	value  C
	ok     bool
	loaded bool
}

// Loaded reports whether the slot has been populated.
func (s *Option[C]) Loaded() bool { return s.loaded }

// Value returns the child entity and whether one exists, or a
// *NotLoadedError if the edge was never eager-loaded. A loaded slot with
// no child returns (zero, false, nil).
func (s *Option[C]) Value() (C, bool, error) {
	if !s.loaded {
		var zero C
		return zero, false, &NotLoadedError{}
	}
	return s.value, s.ok, nil
}

func (s *Option[C]) set(v C) {
	if s.loaded {
		return
	}
	s.value, s.ok, s.loaded = v, true, true
}

// setAbsent marks the slot loaded with no child.
func (s *Option[C]) setAbsent() {
	if s.loaded {
		return
	}
	s.loaded = true
}

// Many is an edge slot holding an ordered list of child entities.
// The zero value is unloaded.
type Many[C any] struct {
	values []C
	loaded bool
}

// Loaded reports whether the slot has been populated.
func (s *Many[C]) Loaded() bool { return s.loaded }

// Values returns the child entities in the order the Loader produced them,
// or a *NotLoadedError if the edge was never eager-loaded. A loaded slot
// with no children returns an empty, non-nil slice.
func (s *Many[C]) Values() ([]C, error) {
	if !s.loaded {
		return nil, &NotLoadedError{}
	}
	return s.values, nil
}

func (s *Many[C]) set(values []C) {
	if s.loaded {
		return
	}
	if values == nil {
		values = []C{}
	}
	s.values, s.loaded = values, true
}
