// Package msgpack provides a streaming MessagePack codec.
package msgpack

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/ferry"
)

// msgpackCodec implements ferry.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() ferry.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// NewSink returns a MessagePack sink writing to w.
func (c *msgpackCodec) NewSink(w io.Writer) ferry.Sink {
	return NewSink(w)
}

// Sink writes MessagePack directly through a msgpack.Encoder. Container
// lengths come from the size hints, which the encoder guarantees are exact.
// Scalar keys are written natively.
type Sink struct {
	enc *msgpack.Encoder
}

// NewSink returns a MessagePack sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{enc: msgpack.NewEncoder(w)}
}

func (s *Sink) NativeKeys() bool { return true }

func (s *Sink) BeginMap(size int) error { return s.enc.EncodeMapLen(size) }
func (s *Sink) EndMap() error { return nil }
func (s *Sink) BeginSeq(size int) error { return s.enc.EncodeArrayLen(size) }
func (s *Sink) EndSeq() error { return nil }

func (s *Sink) WriteKey(key string) error { return s.enc.EncodeString(key) }
func (s *Sink) WriteNull() error { return s.enc.EncodeNil() }
func (s *Sink) WriteBool(v bool) error { return s.enc.EncodeBool(v) }
func (s *Sink) WriteInt(v int64) error { return s.enc.EncodeInt(v) }
func (s *Sink) WriteUint(v uint64) error { return s.enc.EncodeUint(v) }
func (s *Sink) WriteFloat(v float64) error { return s.enc.EncodeFloat64(v) }
func (s *Sink) WriteString(v string) error { return s.enc.EncodeString(v) }
func (s *Sink) WriteBytes(v []byte) error { return s.enc.EncodeBytes(v) }
