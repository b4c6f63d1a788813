// Package protobuf provides a codec producing a google.protobuf.Value.
//
// Mappings become Struct, sequences become ListValue and every number
// becomes a double. Integers outside ±2^53 cannot be held exactly by a
// double and are rejected. Bytes are base64 strings, as in protojson.
package protobuf

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/zoobzio/ferry"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MaxSafeInteger is the largest integer a double holds exactly.
const MaxSafeInteger = 1<<53 - 1

var (
	// ErrIntegerRange is returned for integers beyond MaxSafeInteger.
	ErrIntegerRange = errors.New("protobuf: integer not exactly representable")

	// ErrDuplicateKey is returned when two keys of one mapping render to the
	// same Struct field name.
	ErrDuplicateKey = errors.New("protobuf: duplicate key")

	errUnbalanced    = errors.New("protobuf: unbalanced container")
	errKeyOutsideMap = errors.New("protobuf: key written outside map")
	errValueNoKey    = errors.New("protobuf: value written without key")
	errNoRoot        = errors.New("protobuf: no root value")
	errMultipleRoots = errors.New("protobuf: more than one root value")
)

// protoCodec implements ferry.Codec for protobuf.
type protoCodec struct {
	mo proto.MarshalOptions
}

// New returns a protobuf codec with deterministic marshaling.
func New() ferry.Codec {
	return &protoCodec{mo: proto.MarshalOptions{Deterministic: true}}
}

// ContentType returns the MIME type for protobuf.
func (c *protoCodec) ContentType() string {
	return "application/x-protobuf"
}

// NewSink returns a protobuf sink writing to w.
func (c *protoCodec) NewSink(w io.Writer) ferry.Sink {
	return &Sink{w: w, mo: c.mo}
}

// Sink assembles a structpb.Value and marshals it on Flush.
type Sink struct {
	w     io.Writer
	mo    proto.MarshalOptions
	stack []*frame
	root  *structpb.Value
}

type frame struct {
	fields map[string]*structpb.Value
	list   []*structpb.Value
	isMap  bool
	key    string
	keyed  bool
}

// NewSink returns a protobuf sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w, mo: proto.MarshalOptions{Deterministic: true}}
}

// Value returns the root value once it is complete.
func (s *Sink) Value() (*structpb.Value, error) {
	if s.root == nil || len(s.stack) > 0 {
		return nil, errNoRoot
	}
	return s.root, nil
}

// NativeKeys is false: Struct field names are strings.
func (s *Sink) NativeKeys() bool { return false }

func (s *Sink) BeginMap(size int) error {
	if err := s.check(); err != nil {
		return err
	}
	s.stack = append(s.stack, &frame{isMap: true, fields: make(map[string]*structpb.Value, max(size, 0))})
	return nil
}

func (s *Sink) EndMap() error {
	f, err := s.pop(true)
	if err != nil {
		return err
	}
	return s.put(structpb.NewStructValue(&structpb.Struct{Fields: f.fields}))
}

func (s *Sink) BeginSeq(size int) error {
	if err := s.check(); err != nil {
		return err
	}
	s.stack = append(s.stack, &frame{list: make([]*structpb.Value, 0, max(size, 0))})
	return nil
}

func (s *Sink) EndSeq() error {
	f, err := s.pop(false)
	if err != nil {
		return err
	}
	return s.put(structpb.NewListValue(&structpb.ListValue{Values: f.list}))
}

func (s *Sink) WriteKey(key string) error {
	if len(s.stack) == 0 {
		return errKeyOutsideMap
	}
	top := s.stack[len(s.stack)-1]
	if !top.isMap || top.keyed {
		return errKeyOutsideMap
	}
	top.key, top.keyed = key, true
	return nil
}

func (s *Sink) WriteNull() error { return s.put(structpb.NewNullValue()) }
func (s *Sink) WriteBool(v bool) error { return s.put(structpb.NewBoolValue(v)) }
func (s *Sink) WriteFloat(v float64) error { return s.put(structpb.NewNumberValue(v)) }
func (s *Sink) WriteString(v string) error { return s.put(structpb.NewStringValue(v)) }

func (s *Sink) WriteInt(v int64) error {
	if v > MaxSafeInteger || v < -MaxSafeInteger {
		return fmt.Errorf("%w: %d", ErrIntegerRange, v)
	}
	return s.put(structpb.NewNumberValue(float64(v)))
}

func (s *Sink) WriteUint(v uint64) error {
	if v > MaxSafeInteger {
		return fmt.Errorf("%w: %d", ErrIntegerRange, v)
	}
	return s.put(structpb.NewNumberValue(float64(v)))
}

func (s *Sink) WriteBytes(v []byte) error {
	return s.put(structpb.NewStringValue(base64.StdEncoding.EncodeToString(v)))
}

// Flush marshals the completed value to the writer.
func (s *Sink) Flush() error {
	root, err := s.Value()
	if err != nil {
		return err
	}
	data, err := s.mo.Marshal(root)
	if err != nil {
		return err
	}
	_, err = s.w.Write(data)
	return err
}

// check reports whether a container may start here.
func (s *Sink) check() error {
	if len(s.stack) == 0 {
		if s.root != nil {
			return errMultipleRoots
		}
		return nil
	}
	top := s.stack[len(s.stack)-1]
	if top.isMap && !top.keyed {
		return errValueNoKey
	}
	return nil
}

func (s *Sink) pop(isMap bool) (*frame, error) {
	if len(s.stack) == 0 {
		return nil, errUnbalanced
	}
	f := s.stack[len(s.stack)-1]
	if f.isMap != isMap || f.keyed {
		return nil, errUnbalanced
	}
	s.stack = s.stack[:len(s.stack)-1]
	return f, nil
}

func (s *Sink) put(v *structpb.Value) error {
	if len(s.stack) == 0 {
		if s.root != nil {
			return errMultipleRoots
		}
		s.root = v
		return nil
	}
	top := s.stack[len(s.stack)-1]
	if !top.isMap {
		top.list = append(top.list, v)
		return nil
	}
	if !top.keyed {
		return errValueNoKey
	}
	if _, dup := top.fields[top.key]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, top.key)
	}
	top.fields[top.key] = v
	top.key, top.keyed = "", false
	return nil
}
