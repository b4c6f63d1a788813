package ferry

// Map is an ordered mapping. Entries are emitted in slice order, which makes
// it the type to reach for when insertion order must survive serialization.
type Map []Pair

// Pair is one entry of a Map.
type Pair struct {
	Key   any
	Value any
}

// Set adds v under k, replacing the value of an existing equal key in place.
// Keys are compared with ==, so they must be comparable.
func (m *Map) Set(k, v any) {
	for i := range *m {
		if (*m)[i].Key == k {
			(*m)[i].Value = v
			return
		}
	}
	*m = append(*m, Pair{Key: k, Value: v})
}

// Get returns the value stored under k.
func (m Map) Get(k any) (any, bool) {
	for _, p := range m {
		if p.Key == k {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []any {
	keys := make([]any, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// Tuple is a fixed-arity heterogeneous sequence.
type Tuple []any

// Set is a mutable set of comparable members. Iteration order is whatever the
// underlying map yields and is not stable.
type Set map[any]struct{}

// NewSet returns a set holding members.
func NewSet(members ...any) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts m.
func (s Set) Add(m any) { s[m] = struct{}{} }

// Has reports whether m is a member.
func (s Set) Has(m any) bool {
	_, ok := s[m]
	return ok
}

// FrozenSet is an immutable set. Members keep first-seen order.
type FrozenSet struct {
	members []any
}

// NewFrozenSet returns a frozen set of the distinct members.
func NewFrozenSet(members ...any) FrozenSet {
	seen := make(map[any]struct{}, len(members))
	out := make([]any, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return FrozenSet{members: out}
}

// Members returns a copy of the members.
func (f FrozenSet) Members() []any {
	return append([]any(nil), f.members...)
}

// Len returns the number of members.
func (f FrozenSet) Len() int { return len(f.members) }
