package ferry

import (
	"cmp"
	"reflect"
	"slices"
)

var mapType = reflect.TypeFor[Map]()

func (st *state) encodeSeq(rv reflect.Value, depth int) error {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return sinkError(KindNone, st.sink.WriteNull())
	}
	if err := st.descend(KindSequence, rv, depth); err != nil {
		return err
	}

	n := rv.Len()
	if err := st.sink.BeginSeq(n); err != nil {
		return sinkError(KindSequence, err)
	}
	for i := 0; i < n; i++ {
		if err := st.encode(rv.Index(i), depth+1); err != nil {
			_ = st.sink.EndSeq()
			return atIndex(err, i)
		}
	}
	return sinkError(KindSequence, st.sink.EndSeq())
}

// encodeTuple uses the fixed-arity hint for short tuples when the sink wants
// it, and is otherwise identical to encodeSeq.
func (st *state) encodeTuple(rv reflect.Value, depth int) error {
	n := rv.Len()
	if st.tuples == nil || n > TupleHintLimit {
		return st.encodeSeq(rv, depth)
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return sinkError(KindNone, st.sink.WriteNull())
	}
	if err := st.descend(KindTuple, rv, depth); err != nil {
		return err
	}

	if err := st.tuples.BeginTuple(n); err != nil {
		return sinkError(KindTuple, err)
	}
	for i := 0; i < n; i++ {
		if err := st.encode(rv.Index(i), depth+1); err != nil {
			_ = st.tuples.EndTuple()
			return atIndex(err, i)
		}
	}
	return sinkError(KindTuple, st.tuples.EndTuple())
}

func (st *state) encodeMapping(rv reflect.Value, depth int) error {
	if rv.IsNil() {
		return sinkError(KindNone, st.sink.WriteNull())
	}
	if err := st.descend(KindMapping, rv, depth); err != nil {
		return err
	}
	if rv.Kind() == reflect.Slice {
		return st.encodeOrderedMap(rv.Convert(mapType).Interface().(Map), depth)
	}

	keys, err := st.sortMapKeys(rv.MapKeys(), depth+1)
	if err != nil {
		return err
	}
	if err := st.sink.BeginMap(len(keys)); err != nil {
		return sinkError(KindMapping, err)
	}
	for _, k := range keys {
		if err := st.encodeEntry(k.rv, rv.MapIndex(k.rv), depth); err != nil {
			_ = st.sink.EndMap()
			return err
		}
	}
	return sinkError(KindMapping, st.sink.EndMap())
}

// encodeOrderedMap emits entries in insertion order.
func (st *state) encodeOrderedMap(m Map, depth int) error {
	if err := st.sink.BeginMap(len(m)); err != nil {
		return sinkError(KindMapping, err)
	}
	for _, p := range m {
		if err := st.encodeEntry(reflect.ValueOf(p.Key), reflect.ValueOf(p.Value), depth); err != nil {
			_ = st.sink.EndMap()
			return err
		}
	}
	return sinkError(KindMapping, st.sink.EndMap())
}

func (st *state) encodeEntry(key, value reflect.Value, depth int) error {
	if err := st.encodeKey(key, depth+1); err != nil {
		return err
	}
	if err := st.encode(value, depth+1); err != nil {
		return atKey(err, segmentFor(key))
	}
	return nil
}

func (st *state) encodeSet(rv reflect.Value, depth int) error {
	if rv.IsNil() {
		return sinkError(KindNone, st.sink.WriteNull())
	}
	if err := st.descend(KindSet, rv, depth); err != nil {
		return err
	}

	members := make([]reflect.Value, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		members = append(members, iter.Key())
	}
	return st.encodeMembers(KindSet, members, depth)
}

func (st *state) encodeFrozenSet(rv reflect.Value, depth int) error {
	if err := st.descend(KindFrozenSet, rv, depth); err != nil {
		return err
	}
	fs := rv.Interface().(FrozenSet)
	members := make([]reflect.Value, len(fs.members))
	for i, m := range fs.members {
		members[i] = reflect.ValueOf(m)
	}
	return st.encodeMembers(KindFrozenSet, members, depth)
}

// encodeMembers writes set members as a sequence. Order is the source's
// iteration order unless sorted sets were requested.
func (st *state) encodeMembers(kind Kind, members []reflect.Value, depth int) error {
	if st.cfg.sortedSets {
		sorted, err := st.sortByKeyText(members, depth)
		if err != nil {
			return err
		}
		members = sorted
	}

	if err := st.sink.BeginSeq(len(members)); err != nil {
		return sinkError(kind, err)
	}
	for i, m := range members {
		if err := st.encode(m, depth+1); err != nil {
			_ = st.sink.EndSeq()
			return atIndex(err, i)
		}
	}
	return sinkError(kind, st.sink.EndSeq())
}

func (st *state) sortByKeyText(members []reflect.Value, depth int) ([]reflect.Value, error) {
	type member struct {
		rv    reflect.Value
		text  string
		kind  Kind
		tname string
	}
	ms := make([]member, len(members))
	for i, m := range members {
		text, err := st.keyText(m, depth+1)
		if err != nil {
			return nil, err
		}
		kind, tname := identify(m)
		ms[i] = member{rv: m, text: text, kind: kind, tname: tname}
	}
	// Equal texts (1 and "1") are ordered by kind, then by type name.
	slices.SortStableFunc(ms, func(a, b member) int {
		if c := cmp.Compare(a.text, b.text); c != 0 {
			return c
		}
		if c := cmp.Compare(a.kind, b.kind); c != 0 {
			return c
		}
		return cmp.Compare(a.tname, b.tname)
	})

	out := make([]reflect.Value, len(ms))
	for i, m := range ms {
		out[i] = m.rv
	}
	return out, nil
}

// identify returns the kind and type name of the value behind any
// indirection, for use as a sort tie-break.
func identify(rv reflect.Value) (Kind, string) {
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return KindNone, ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return KindNone, ""
	}
	return classifyType(rv.Type()), rv.Type().String()
}

// mapKey carries what sortMapKeys needs to order one native map key.
type mapKey struct {
	rv    reflect.Value
	class int
	i     int64
	u     uint64
	f     float64
	text  string
	tname string
}

const (
	keyClassBool = iota
	keyClassInt
	keyClassUint
	keyClassFloat
	keyClassText
	keyClassOther
)

// sortMapKeys gives native Go maps a deterministic order: keys are grouped
// by class, numbers compare numerically and everything else by canonical
// key text. Ties fall back to the type name.
func (st *state) sortMapKeys(keys []reflect.Value, depth int) ([]mapKey, error) {
	out := make([]mapKey, len(keys))
	for i, k := range keys {
		mk := mapKey{rv: k}
		_, mk.tname = identify(k)
		v := k
		for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
			if v.IsNil() {
				break
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Bool:
			mk.class = keyClassBool
			if v.Bool() {
				mk.i = 1
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			mk.class, mk.i = keyClassInt, v.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			mk.class, mk.u = keyClassUint, v.Uint()
		case reflect.Float32, reflect.Float64:
			mk.class, mk.f = keyClassFloat, v.Float()
		default:
			mk.class = keyClassOther
			if v.Kind() == reflect.String {
				mk.class = keyClassText
			}
			text, err := st.keyText(k, depth)
			if err != nil {
				return nil, err
			}
			mk.text = text
		}
		out[i] = mk
	}

	slices.SortStableFunc(out, func(a, b mapKey) int {
		if c := cmp.Compare(a.class, b.class); c != 0 {
			return c
		}
		var c int
		switch a.class {
		case keyClassBool, keyClassInt:
			c = cmp.Compare(a.i, b.i)
		case keyClassUint:
			c = cmp.Compare(a.u, b.u)
		case keyClassFloat:
			c = cmp.Compare(a.f, b.f)
		default:
			c = cmp.Compare(a.text, b.text)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.tname, b.tname)
	})
	return out, nil
}
