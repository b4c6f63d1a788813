package ferry

import (
	"encoding"
	"reflect"
	"sync"
)

var (
	recordType        = reflect.TypeFor[Record]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// probed memoizes structural probe results per type. Probes are pure
// functions of the type, so caching them never changes an answer.
var probed sync.Map // reflect.Type -> Kind

// Classify returns the Kind of v. A nil interface is KindNone; pointers
// classify as the type they point to.
func Classify(v any) Kind {
	if v == nil {
		return KindNone
	}
	return classifyType(reflect.TypeOf(v))
}

func classifyType(t reflect.Type) Kind {
	for t.Kind() == reflect.Pointer {
		if e, ok := lookup(t); ok {
			return e.kind
		}
		t = t.Elem()
	}

	if e, ok := lookup(t); ok {
		return e.kind
	}

	if k, ok := probed.Load(t); ok {
		return k.(Kind)
	}
	k := probe(t)
	probed.Store(t, k)
	return k
}

// probe runs the structural fallbacks in a fixed order.
func probe(t reflect.Type) Kind {
	if t.Implements(recordType) || reflect.PointerTo(t).Implements(recordType) {
		return KindRecord
	}
	if t.Kind() != reflect.Interface &&
		(t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)) {
		return KindTextMarshaler
	}

	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindText
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
		return KindSequence
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
		return KindTuple
	case reflect.Map:
		if e := t.Elem(); e.Kind() == reflect.Struct && e.Size() == 0 {
			return KindSet
		}
		return KindMapping
	case reflect.Struct:
		return KindRecord
	}
	return KindUnknown
}
