package ferry

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// encodeKey writes one mapping key. Text keys pass through. Scalar keys go
// out natively when the sink supports it; everything else is rendered to its
// canonical text or refused.
func (st *state) encodeKey(rv reflect.Value, depth int) error {
	rv, err := st.indirect(rv)
	if err != nil {
		return err
	}

	if st.sink.NativeKeys() {
		switch kindOf(rv) {
		case KindNone:
			return sinkError(KindNone, st.sink.WriteNull())
		case KindBool:
			return sinkError(KindBool, st.sink.WriteBool(rv.Bool()))
		case KindInt:
			return st.encodeInt(rv)
		case KindFloat:
			return sinkError(KindFloat, st.sink.WriteFloat(rv.Float()))
		}
	}

	text, err := st.keyText(rv, depth)
	if err != nil {
		return err
	}
	return sinkError(KindText, st.sink.WriteKey(text))
}

// keyText renders a key with the same per-kind rules the domain encoders use.
func (st *state) keyText(rv reflect.Value, depth int) (string, error) {
	rv, err := st.indirect(rv)
	if err != nil {
		return "", err
	}
	if !rv.IsValid() {
		return "null", nil
	}

	entry, ok := lookup(rv.Type())
	if !ok {
		entry.kind = classifyType(rv.Type())
	}
	if entry.render != nil {
		return entry.render(rv), nil
	}

	switch entry.kind {
	case KindNone:
		return "null", nil
	case KindBool:
		return strconv.FormatBool(rv.Bool()), nil
	case KindInt:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(rv.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return strconv.FormatUint(rv.Uint(), 10), nil
		}
		return addressable(rv).Addr().Interface().(*big.Int).String(), nil
	case KindFloat:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits()), nil
	case KindText:
		return rv.String(), nil
	case KindTextMarshaler:
		return marshalText(rv)
	case KindTuple:
		if depth >= st.cfg.maxDepth {
			return "", newEncodeError(ErrRecursionLimit, KindTuple, rv.Type().String(), nil)
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			part, err := st.keyText(rv.Index(i), depth+1)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return strings.Join(parts, ","), nil
	}
	return "", newEncodeError(ErrKeyNotRepresentable, entry.kind, rv.Type().String(), nil)
}

// kindOf classifies an already indirected value.
func kindOf(rv reflect.Value) Kind {
	if !rv.IsValid() {
		return KindNone
	}
	return classifyType(rv.Type())
}

// segmentFor renders a key for error paths. It never fails.
func segmentFor(key reflect.Value) string {
	for key.IsValid() && (key.Kind() == reflect.Interface || key.Kind() == reflect.Pointer) {
		if key.IsNil() {
			return "null"
		}
		key = key.Elem()
	}
	if !key.IsValid() {
		return "null"
	}
	if key.Kind() == reflect.String {
		return key.String()
	}
	if key.CanInterface() {
		return fmt.Sprint(key.Interface())
	}
	return key.Type().String()
}
