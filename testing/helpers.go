// Package testing provides test utilities for ferry.
package testing

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/zoobzio/ferry"
)

// ErrInjected is the default error returned by a Recorder told to fail.
var ErrInjected = errors.New("injected sink failure")

// Recorder is a sink that records every event as a short string:
//
//	map(2) key:a int:1 end-map
//	seq(3) tuple(2) end-seq end-tuple
//	null bool:true uint:7 float:2.5 string:s bytes:0a0b bigint:123
//
// With Native set, scalar keys arrive as ordinary scalar events. It
// implements ferry.TupleSink and ferry.BigIntSink; wrap it with Plain to
// hide them.
type Recorder struct {
	Native bool
	Events []string

	failOn  string
	failErr error
}

// NewRecorder returns an empty Recorder with text keys.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailOn makes the recorder return err, or ErrInjected when err is nil,
// for the first event that starts with prefix.
func (r *Recorder) FailOn(prefix string, err error) *Recorder {
	if err == nil {
		err = ErrInjected
	}
	r.failOn, r.failErr = prefix, err
	return r
}

// String joins the recorded events with spaces.
func (r *Recorder) String() string {
	return strings.Join(r.Events, " ")
}

// Count returns how many recorded events start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, e := range r.Events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Balanced reports whether every begun container was ended.
func (r *Recorder) Balanced() bool {
	depth := 0
	for _, e := range r.Events {
		switch {
		case strings.HasPrefix(e, "map("), strings.HasPrefix(e, "seq("), strings.HasPrefix(e, "tuple("):
			depth++
		case strings.HasPrefix(e, "end-"):
			depth--
		}
		if depth < 0 {
			return false
		}
	}
	return depth == 0
}

func (r *Recorder) record(event string) error {
	if r.failOn != "" && strings.HasPrefix(event, r.failOn) {
		err := r.failErr
		r.failOn = ""
		return err
	}
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) NativeKeys() bool { return r.Native }

func (r *Recorder) BeginMap(size int) error { return r.record("map(" + strconv.Itoa(size) + ")") }
func (r *Recorder) EndMap() error { return r.record("end-map") }
func (r *Recorder) BeginSeq(size int) error { return r.record("seq(" + strconv.Itoa(size) + ")") }
func (r *Recorder) EndSeq() error { return r.record("end-seq") }
func (r *Recorder) BeginTuple(size int) error { return r.record("tuple(" + strconv.Itoa(size) + ")") }
func (r *Recorder) EndTuple() error { return r.record("end-tuple") }
func (r *Recorder) WriteKey(key string) error { return r.record("key:" + key) }
func (r *Recorder) WriteNull() error { return r.record("null") }
func (r *Recorder) WriteBool(v bool) error { return r.record("bool:" + strconv.FormatBool(v)) }
func (r *Recorder) WriteInt(v int64) error { return r.record("int:" + strconv.FormatInt(v, 10)) }
func (r *Recorder) WriteUint(v uint64) error { return r.record("uint:" + strconv.FormatUint(v, 10)) }
func (r *Recorder) WriteString(v string) error { return r.record("string:" + v) }
func (r *Recorder) WriteBytes(v []byte) error { return r.record("bytes:" + hex.EncodeToString(v)) }
func (r *Recorder) WriteBigInt(v *big.Int) error { return r.record("bigint:" + v.String()) }

func (r *Recorder) WriteFloat(v float64) error {
	return r.record("float:" + strconv.FormatFloat(v, 'g', -1, 64))
}

// plainSink exposes only the ferry.Sink methods of the wrapped sink.
type plainSink struct {
	ferry.Sink
}

// Plain hides optional capabilities (tuple hints, big integers, flushing)
// of s from the encoder.
func Plain(s ferry.Sink) ferry.Sink {
	return plainSink{s}
}

// Nested returns leaf wrapped in n sequences, so that encoding it needs n
// container levels.
func Nested(n int, leaf any) any {
	v := leaf
	for i := 0; i < n; i++ {
		v = []any{v}
	}
	return v
}

// Cyclic returns a mapping that contains itself.
func Cyclic() map[string]any {
	m := map[string]any{"name": "loop"}
	m["self"] = m
	return m
}

// Events encodes v into a fresh Recorder and returns the recorded events,
// failing the test on error.
func Events(t testing.TB, v any, opts ...ferry.Option) string {
	t.Helper()
	r := NewRecorder()
	if err := ferry.Encode(r, v, opts...); err != nil {
		t.Fatalf("Encode(%T) error: %v", v, err)
	}
	return r.String()
}

// Point is a small record type with renamed fields.
type Point struct {
	X int    `ferry:"x"`
	Y string `ferry:"y"`
}

// Account exercises the record field rules: renames, omitempty, skipped
// and unexported fields.
type Account struct {
	ID       string            `json:"id"`
	Email    string            `ferry:"email,omitempty"`
	Password string            `ferry:"-"`
	Tags     []string          `ferry:"tags,omitempty"`
	Meta     map[string]string `ferry:"meta"`
	note     string
}

// NewAccount returns an Account with its unexported field set.
func NewAccount(id, email, note string) Account {
	return Account{ID: id, Email: email, note: note}
}
