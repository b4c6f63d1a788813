// Package cbor provides a streaming CBOR codec.
package cbor

import (
	"io"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/zoobzio/ferry"
)

// encMode uses core deterministic scalar encoding (shortest integers and
// floats) but allows indefinite-length containers so that output can be
// streamed.
var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.IndefLength = cbor.IndefLengthAllowed
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}
}

// cborCodec implements ferry.Codec for CBOR.
type cborCodec struct{}

// New returns a CBOR codec.
func New() ferry.Codec {
	return &cborCodec{}
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// NewSink returns a CBOR sink writing to w.
func (c *cborCodec) NewSink(w io.Writer) ferry.Sink {
	return NewSink(w)
}

// Sink streams CBOR items through a cbor.Encoder. Maps and sequences are
// indefinite-length; integers beyond 64 bits are written as bignums.
type Sink struct {
	enc *cbor.Encoder
}

// NewSink returns a CBOR sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{enc: encMode.NewEncoder(w)}
}

func (s *Sink) NativeKeys() bool { return true }

func (s *Sink) BeginMap(int) error { return s.enc.StartIndefiniteMap() }
func (s *Sink) EndMap() error { return s.enc.EndIndefinite() }
func (s *Sink) BeginSeq(int) error { return s.enc.StartIndefiniteArray() }
func (s *Sink) EndSeq() error { return s.enc.EndIndefinite() }

func (s *Sink) WriteKey(key string) error { return s.enc.Encode(key) }
func (s *Sink) WriteNull() error { return s.enc.Encode(nil) }
func (s *Sink) WriteBool(v bool) error { return s.enc.Encode(v) }
func (s *Sink) WriteInt(v int64) error { return s.enc.Encode(v) }
func (s *Sink) WriteUint(v uint64) error { return s.enc.Encode(v) }
func (s *Sink) WriteBigInt(v *big.Int) error { return s.enc.Encode(v) }
func (s *Sink) WriteFloat(v float64) error { return s.enc.Encode(v) }
func (s *Sink) WriteString(v string) error { return s.enc.Encode(v) }
func (s *Sink) WriteBytes(v []byte) error { return s.enc.Encode(v) }
