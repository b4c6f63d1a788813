// Package json provides a streaming JSON codec.
package json

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"strconv"

	"github.com/zoobzio/ferry"
)

var (
	errValueWithoutKey = errors.New("json: value written without key")
	errKeyOutsideMap   = errors.New("json: key written outside map")
	errUnbalanced      = errors.New("json: unbalanced container")
	errMultipleRoots   = errors.New("json: more than one root value")
)

// jsonCodec implements ferry.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() ferry.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// NewSink returns a JSON sink writing to w.
func (c *jsonCodec) NewSink(w io.Writer) ferry.Sink {
	return NewSink(w)
}

// Sink writes JSON text as events arrive. Output is buffered until Flush.
//
// Bytes are written as base64 strings. Non-finite floats are rejected
// since JSON has no representation for them.
type Sink struct {
	w     *bufio.Writer
	stack []frame
	done  bool
	esc   bytes.Buffer
	enc   *json.Encoder
}

type frame struct {
	isMap bool
	n     int
	keyed bool
}

// NewSink returns a JSON sink writing to w.
func NewSink(w io.Writer) *Sink {
	s := &Sink{w: bufio.NewWriter(w)}
	s.enc = json.NewEncoder(&s.esc)
	s.enc.SetEscapeHTML(false)
	return s
}

// NativeKeys is false: JSON object keys are always strings.
func (s *Sink) NativeKeys() bool { return false }

// Flush writes buffered output to the underlying writer.
func (s *Sink) Flush() error { return s.w.Flush() }

func (s *Sink) BeginMap(int) error {
	if err := s.value(); err != nil {
		return err
	}
	s.stack = append(s.stack, frame{isMap: true})
	return s.w.WriteByte('{')
}

func (s *Sink) EndMap() error {
	if err := s.pop(true); err != nil {
		return err
	}
	return s.w.WriteByte('}')
}

func (s *Sink) BeginSeq(int) error {
	if err := s.value(); err != nil {
		return err
	}
	s.stack = append(s.stack, frame{})
	return s.w.WriteByte('[')
}

func (s *Sink) EndSeq() error {
	if err := s.pop(false); err != nil {
		return err
	}
	return s.w.WriteByte(']')
}

func (s *Sink) WriteKey(key string) error {
	if len(s.stack) == 0 {
		return errKeyOutsideMap
	}
	top := &s.stack[len(s.stack)-1]
	if !top.isMap || top.keyed {
		return errKeyOutsideMap
	}
	if top.n > 0 {
		if err := s.w.WriteByte(','); err != nil {
			return err
		}
	}
	top.n++
	top.keyed = true
	if err := s.quote(key); err != nil {
		return err
	}
	return s.w.WriteByte(':')
}

func (s *Sink) WriteNull() error { return s.raw("null") }

func (s *Sink) WriteBool(v bool) error {
	return s.raw(strconv.FormatBool(v))
}

func (s *Sink) WriteInt(v int64) error {
	return s.raw(strconv.FormatInt(v, 10))
}

func (s *Sink) WriteUint(v uint64) error {
	return s.raw(strconv.FormatUint(v, 10))
}

// WriteBigInt writes the integer as a bare JSON number of any length.
func (s *Sink) WriteBigInt(v *big.Int) error {
	return s.raw(v.String())
}

func (s *Sink) WriteFloat(v float64) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.raw(string(b))
}

func (s *Sink) WriteString(v string) error {
	if err := s.value(); err != nil {
		return err
	}
	return s.quote(v)
}

func (s *Sink) WriteBytes(v []byte) error {
	return s.WriteString(base64.StdEncoding.EncodeToString(v))
}

func (s *Sink) raw(text string) error {
	if err := s.value(); err != nil {
		return err
	}
	_, err := s.w.WriteString(text)
	return err
}

// quote writes a JSON string literal using encoding/json escaping.
func (s *Sink) quote(v string) error {
	s.esc.Reset()
	if err := s.enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline.
	_, err := s.w.Write(bytes.TrimSuffix(s.esc.Bytes(), []byte{'\n'}))
	return err
}

// value checks that a value may be written here and emits any separator.
func (s *Sink) value() error {
	if len(s.stack) == 0 {
		if s.done {
			return errMultipleRoots
		}
		s.done = true
		return nil
	}
	top := &s.stack[len(s.stack)-1]
	if top.isMap {
		if !top.keyed {
			return errValueWithoutKey
		}
		top.keyed = false
		return nil
	}
	if top.n > 0 {
		if err := s.w.WriteByte(','); err != nil {
			return err
		}
	}
	top.n++
	return nil
}

func (s *Sink) pop(isMap bool) error {
	if len(s.stack) == 0 {
		return errUnbalanced
	}
	top := s.stack[len(s.stack)-1]
	if top.isMap != isMap || top.keyed {
		return errUnbalanced
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}
