// Package bson provides a BSON codec.
package bson

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/zoobzio/ferry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrRootNotDocument is returned when the root value is not a mapping.
	// BSON can only represent documents at the top level.
	ErrRootNotDocument = errors.New("bson: root value must be a mapping")

	// ErrIntegerRange is returned for integers a Decimal128 cannot hold.
	ErrIntegerRange = errors.New("bson: integer out of range")

	errUnbalanced    = errors.New("bson: unbalanced container")
	errKeyOutsideMap = errors.New("bson: key written outside map")
	errValueNoKey    = errors.New("bson: value written without key")
	errNoRoot        = errors.New("bson: no root value")
)

// bsonCodec implements ferry.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() ferry.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// NewSink returns a BSON sink writing to w.
func (c *bsonCodec) NewSink(w io.Writer) ferry.Sink {
	return NewSink(w)
}

// Sink assembles a bson.D document and marshals it on Flush. Integers that
// do not fit in an int64 are stored as Decimal128.
type Sink struct {
	w     io.Writer
	stack []*frame
	root  any
	done  bool
}

type frame struct {
	isMap bool
	doc   bson.D
	arr   bson.A
	key   string
	keyed bool
}

// NewSink returns a BSON sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Document returns the root document once it is complete.
func (s *Sink) Document() (bson.D, error) {
	if !s.done || len(s.stack) > 0 {
		return nil, errNoRoot
	}
	doc, ok := s.root.(bson.D)
	if !ok {
		return nil, ErrRootNotDocument
	}
	return doc, nil
}

// NativeKeys is false: BSON element names are strings.
func (s *Sink) NativeKeys() bool { return false }

func (s *Sink) BeginMap(size int) error {
	if len(s.stack) == 0 && s.done {
		return errors.New("bson: more than one root value")
	}
	s.stack = append(s.stack, &frame{isMap: true, doc: make(bson.D, 0, max(size, 0))})
	return nil
}

func (s *Sink) EndMap() error {
	f, err := s.pop(true)
	if err != nil {
		return err
	}
	return s.put(f.doc)
}

func (s *Sink) BeginSeq(size int) error {
	if len(s.stack) == 0 {
		return ErrRootNotDocument
	}
	s.stack = append(s.stack, &frame{arr: make(bson.A, 0, max(size, 0))})
	return nil
}

func (s *Sink) EndSeq() error {
	f, err := s.pop(false)
	if err != nil {
		return err
	}
	return s.put(f.arr)
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

func (s *Sink) WriteNull() error { return s.put(nil) }
func (s *Sink) WriteBool(v bool) error { return s.put(v) }
func (s *Sink) WriteInt(v int64) error { return s.put(v) }
func (s *Sink) WriteFloat(v float64) error { return s.put(v) }
func (s *Sink) WriteString(v string) error { return s.put(v) }

func (s *Sink) WriteUint(v uint64) error {
	if v <= math.MaxInt64 {
		return s.put(int64(v))
	}
	return s.WriteBigInt(new(big.Int).SetUint64(v))
}

// WriteBigInt stores v as an int64 when it fits and as Decimal128 otherwise.
func (s *Sink) WriteBigInt(v *big.Int) error {
	if v.IsInt64() {
		return s.put(v.Int64())
	}
	d, ok := primitive.ParseDecimal128FromBigInt(v, 0)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIntegerRange, v)
	}
	return s.put(d)
}

func (s *Sink) WriteBytes(v []byte) error {
	return s.put(primitive.Binary{Subtype: bsontype.BinaryGeneric, Data: append([]byte(nil), v...)})
}

// Flush marshals the completed document to the writer.
func (s *Sink) Flush() error {
	doc, err := s.Document()
	if err != nil {
		return err
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.w.Write(data)
	return err
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

// put places a finished value in the open container. Only a document may
// stand at the root.
func (s *Sink) put(v any) error {
	if len(s.stack) == 0 {
		if _, ok := v.(bson.D); !ok {
			return ErrRootNotDocument
		}
		s.root, s.done = v, true
		return nil
	}
	top := s.stack[len(s.stack)-1]
	if !top.isMap {
		top.arr = append(top.arr, v)
		return nil
	}
	if !top.keyed {
		return errValueNoKey
	}
	top.doc = append(top.doc, bson.E{Key: top.key, Value: v})
	top.key, top.keyed = "", false
	return nil
}
