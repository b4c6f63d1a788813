// Package ferry converts arbitrary Go value graphs into a format-neutral
// structured model and streams it into a backend.
//
// The engine walks a value, resolves its Kind through a process-wide type
// registry, and dispatches to the encoder for that Kind. Encoders write
// incrementally against a Sink (start/end map, start/end sequence, scalars);
// nothing is materialized in between. Backends implement Sink and decide the
// wire format.
//
// # Kinds
//
// Every value is classified into one Kind:
//
//   - scalars: none, bool, int, float, text, bytes
//   - containers: sequence, tuple, mapping, set, frozenset, record
//   - temporal: datetime, date, time, duration, timestamp, timezone
//   - domain: ipaddr, ipnetwork, socketaddr, url, httpstatus, uuid, ulid, headers
//   - text-marshaler: any type implementing encoding.TextMarshaler
//
// Domain values are emitted in their canonical text form, the same string
// their own String method produces, so that consumers without the domain
// model still receive something meaningful.
//
// # Basic Usage
//
//	type Point struct {
//	    X int    `ferry:"x"`
//	    Y string `ferry:"y"`
//	}
//
//	data, err := ferry.Marshal(ctx, json.New(), Point{X: 1, Y: "s"})
//	// {"x":1,"y":"s"}
//
// Lower level, against any Sink:
//
//	enc := ferry.NewEncoder(ferry.WithMaxDepth(64))
//	err := enc.Encode(sink, value)
//
// # Ordering
//
// ferry.Map preserves insertion order. Native Go maps have no order and are
// emitted sorted by key. Sets are emitted in whatever order they iterate.
//
// # Errors
//
// Every failure aborts the whole encode and leaves the sink in an
// unspecified (but balanced) state that callers should discard:
//
//   - ErrRecursionLimit: the graph is deeper than the configured maximum
//   - ErrKeyNotRepresentable: a mapping key has no canonical text form
//   - ErrNotARecord: a value could not be classified and no fallback handled it
//   - ErrSinkRejected: the backend refused a write
//
// # Codec Providers
//
// The following backends are available as sub-packages:
//
//   - json - JSON (application/json)
//   - yaml - YAML (application/yaml)
//   - msgpack - MessagePack (application/msgpack)
//   - cbor - CBOR (application/cbor)
//   - bson - BSON (application/bson)
//   - xml - XML (application/xml)
//   - protobuf - google.protobuf.Value (application/x-protobuf)
//   - compress - zstd or lz4 wrapping of any of the above
package ferry

import (
	"io"
	"math/big"
)

// Sink is the incremental writer a backend exposes to the engine.
//
// Inside a map, entries arrive as a key write followed by exactly one value.
// Keys normally arrive through WriteKey; when NativeKeys reports true, scalar
// keys (null, bool, int, float) arrive through the ordinary scalar writers.
//
// Size arguments are the exact number of elements (or entries) that follow.
type Sink interface {
	BeginMap(size int) error
	EndMap() error
	BeginSeq(size int) error
	EndSeq() error
	WriteKey(key string) error

	WriteNull() error
	WriteBool(v bool) error
	WriteInt(v int64) error
	WriteUint(v uint64) error
	WriteFloat(v float64) error
	WriteString(v string) error
	WriteBytes(v []byte) error

	// NativeKeys reports whether the backend can represent non-text map keys.
	NativeKeys() bool
}

// TupleSink is implemented by sinks that want a fixed-arity hint for short
// tuples. It never changes the emitted semantics.
type TupleSink interface {
	BeginTuple(size int) error
	EndTuple() error
}

// BigIntSink is implemented by sinks that can represent arbitrary-precision
// integers.
type BigIntSink interface {
	WriteBigInt(v *big.Int) error
}

// Flusher is implemented by sinks that buffer output until the root value is
// complete.
type Flusher interface {
	Flush() error
}

// Codec creates sinks for one output format.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// NewSink returns a sink writing to w. A sink encodes one root value.
	NewSink(w io.Writer) Sink
}
