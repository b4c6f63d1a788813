package ferry

import (
	"encoding"
	"fmt"
	"math/big"
	"reflect"
)

// Encoder walks value graphs into sinks. It is immutable after construction
// and safe for concurrent use; every Encode call owns its sink.
type Encoder struct {
	cfg config
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{cfg: cfg}
}

// MaxDepth returns the nesting limit in effect.
func (e *Encoder) MaxDepth() int { return e.cfg.maxDepth }

// Encode writes v into s. On error the sink holds a partial value and should
// be discarded.
func (e *Encoder) Encode(s Sink, v any) error {
	st := &state{sink: s, cfg: &e.cfg}
	st.tuples, _ = s.(TupleSink)
	st.bigints, _ = s.(BigIntSink)
	return st.encode(reflect.ValueOf(v), 0)
}

// Encode writes v into s using a one-off Encoder.
func Encode(s Sink, v any, opts ...Option) error {
	return NewEncoder(opts...).Encode(s, v)
}

// state is the per-call traversal context. The depth is never stored here;
// it travels as a parameter so that siblings see the same value.
type state struct {
	sink    Sink
	tuples  TupleSink
	bigints BigIntSink
	cfg     *config
}

// encode is the single dispatch point every recursive call goes through.
func (st *state) encode(rv reflect.Value, depth int) error {
	rv, err := st.indirect(rv)
	if err != nil {
		return err
	}
	if !rv.IsValid() {
		return sinkError(KindNone, st.sink.WriteNull())
	}

	entry, ok := lookup(rv.Type())
	if !ok {
		entry.kind = classifyType(rv.Type())
	}
	return st.encodeKind(rv, entry, depth)
}

// indirect strips pointers and interfaces. A nil anywhere along the chain
// yields the zero Value, which encodes as null.
func (st *state) indirect(rv reflect.Value) (reflect.Value, error) {
	for hops := 0; rv.IsValid(); hops++ {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
		default:
			return rv, nil
		}
		if rv.IsNil() {
			return reflect.Value{}, nil
		}
		if hops >= st.cfg.maxDepth {
			return rv, newEncodeError(ErrRecursionLimit, KindUnknown, rv.Type().String(), nil)
		}
		rv = rv.Elem()
	}
	return rv, nil
}

func (st *state) encodeKind(rv reflect.Value, entry typeEntry, depth int) error {
	switch entry.kind {
	case KindNone:
		return sinkError(KindNone, st.sink.WriteNull())
	case KindBool:
		return sinkError(KindBool, st.sink.WriteBool(rv.Bool()))
	case KindInt:
		return st.encodeInt(rv)
	case KindFloat:
		return sinkError(KindFloat, st.sink.WriteFloat(rv.Float()))
	case KindText:
		return sinkError(KindText, st.sink.WriteString(rv.String()))
	case KindBytes:
		return st.encodeBytes(rv)
	case KindSequence:
		return st.encodeSeq(rv, depth)
	case KindTuple:
		return st.encodeTuple(rv, depth)
	case KindMapping:
		return st.encodeMapping(rv, depth)
	case KindSet:
		return st.encodeSet(rv, depth)
	case KindFrozenSet:
		return st.encodeFrozenSet(rv, depth)
	case KindRecord:
		return st.encodeRecord(rv, depth)
	case KindHeaders:
		return st.encodeHeaders(rv)
	case KindTextMarshaler:
		text, err := marshalText(rv)
		if err != nil {
			return err
		}
		return sinkError(KindTextMarshaler, st.sink.WriteString(text))
	case KindUnknown:
		return st.encodeUnknown(rv, depth)
	}

	if entry.render != nil {
		return sinkError(entry.kind, st.sink.WriteString(entry.render(rv)))
	}
	return newEncodeError(ErrNotARecord, entry.kind, rv.Type().String(), nil)
}

// descend is the recursion governor: it must pass before any container or
// record writes anything.
func (st *state) descend(kind Kind, rv reflect.Value, depth int) error {
	if depth >= st.cfg.maxDepth {
		return newEncodeError(ErrRecursionLimit, kind, rv.Type().String(),
			fmt.Errorf("max depth %d", st.cfg.maxDepth))
	}
	return nil
}

func (st *state) encodeInt(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sinkError(KindInt, st.sink.WriteInt(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return sinkError(KindInt, st.sink.WriteUint(rv.Uint()))
	}
	return st.writeBigInt(addressable(rv).Addr().Interface().(*big.Int))
}

func (st *state) writeBigInt(b *big.Int) error {
	switch {
	case st.bigints != nil:
		return sinkError(KindInt, st.bigints.WriteBigInt(b))
	case b.IsInt64():
		return sinkError(KindInt, st.sink.WriteInt(b.Int64()))
	case b.IsUint64():
		return sinkError(KindInt, st.sink.WriteUint(b.Uint64()))
	}
	return newEncodeError(ErrSinkRejected, KindInt, "big.Int",
		fmt.Errorf("integer %s does not fit in 64 bits", b))
}

func (st *state) encodeBytes(rv reflect.Value) error {
	if rv.Kind() == reflect.Slice {
		if rv.IsNil() {
			return sinkError(KindNone, st.sink.WriteNull())
		}
		return sinkError(KindBytes, st.sink.WriteBytes(rv.Bytes()))
	}
	b := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(b), rv)
	return sinkError(KindBytes, st.sink.WriteBytes(b))
}

// encodeUnknown hands the value to the fallback transform once and encodes
// its result one level deeper.
func (st *state) encodeUnknown(rv reflect.Value, depth int) error {
	if st.cfg.fallback == nil || !rv.CanInterface() {
		return newEncodeError(ErrNotARecord, KindUnknown, rv.Type().String(), nil)
	}

	out, err := st.cfg.fallback(rv.Interface())
	if err != nil {
		return newEncodeError(ErrFallback, KindUnknown, rv.Type().String(), err)
	}

	ov, err := st.indirect(reflect.ValueOf(out))
	if err != nil {
		return err
	}
	if !ov.IsValid() {
		return sinkError(KindNone, st.sink.WriteNull())
	}

	entry, ok := lookup(ov.Type())
	if !ok {
		entry.kind = classifyType(ov.Type())
	}
	if entry.kind == KindUnknown {
		return newEncodeError(ErrNotARecord, KindUnknown, ov.Type().String(),
			fmt.Errorf("fallback for %s returned unclassifiable %s", rv.Type(), ov.Type()))
	}
	return st.encodeKind(ov, entry, depth+1)
}

func marshalText(rv reflect.Value) (string, error) {
	var m encoding.TextMarshaler
	if rv.Type().Implements(textMarshalerType) {
		m = rv.Interface().(encoding.TextMarshaler)
	} else {
		m = addressable(rv).Addr().Interface().(encoding.TextMarshaler)
	}
	b, err := m.MarshalText()
	if err != nil {
		return "", newEncodeError(ErrMarshalText, KindTextMarshaler, rv.Type().String(), err)
	}
	return string(b), nil
}
