package ferry

import (
	"net/http"
	"reflect"
	"slices"
)

// encodeHeaders writes an http.Header as a map of header name to value.
// Names are sorted; a single value is written as a string and repeated
// headers as a sequence of strings.
func (st *state) encodeHeaders(rv reflect.Value) error {
	h := rv.Interface().(http.Header)
	if h == nil {
		return sinkError(KindNone, st.sink.WriteNull())
	}

	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	slices.Sort(names)

	if err := st.sink.BeginMap(len(names)); err != nil {
		return sinkError(KindHeaders, err)
	}
	for _, name := range names {
		if err := st.writeHeader(name, h[name]); err != nil {
			_ = st.sink.EndMap()
			return atKey(err, name)
		}
	}
	return sinkError(KindHeaders, st.sink.EndMap())
}

func (st *state) writeHeader(name string, values []string) error {
	if err := st.sink.WriteKey(name); err != nil {
		return sinkError(KindHeaders, err)
	}
	if len(values) == 1 {
		return sinkError(KindHeaders, st.sink.WriteString(values[0]))
	}
	if err := st.sink.BeginSeq(len(values)); err != nil {
		return sinkError(KindHeaders, err)
	}
	for i, v := range values {
		if err := st.sink.WriteString(v); err != nil {
			_ = st.sink.EndSeq()
			return atIndex(sinkError(KindHeaders, err), i)
		}
	}
	return sinkError(KindHeaders, st.sink.EndSeq())
}
