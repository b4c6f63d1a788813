// Package compress wraps any ferry.Codec so that its output is compressed
// with zstd or lz4 as it is written.
package compress

import (
	"fmt"
	"io"
	"math/big"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zoobzio/ferry"
)

// Codec is a ferry.Codec whose output is compressed.
type Codec interface {
	ferry.Codec

	// ContentEncoding returns the compression name (e.g., "zstd").
	ContentEncoding() string
}

type compressCodec struct {
	inner    ferry.Codec
	encoding string
	wrap     func(w io.Writer) (io.WriteCloser, error)
}

// Zstd wraps c with zstd compression.
func Zstd(c ferry.Codec, opts ...zstd.EOption) Codec {
	return &compressCodec{
		inner:    c,
		encoding: "zstd",
		wrap: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w, opts...)
		},
	}
}

// LZ4 wraps c with lz4 frame compression.
func LZ4(c ferry.Codec) Codec {
	return &compressCodec{
		inner:    c,
		encoding: "lz4",
		wrap: func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
	}
}

// ContentType returns the wrapped codec's MIME type.
func (c *compressCodec) ContentType() string {
	return c.inner.ContentType()
}

// ContentEncoding returns the compression name.
func (c *compressCodec) ContentEncoding() string {
	return c.encoding
}

// NewSink returns a sink that encodes with the wrapped codec into a
// compressing writer. Flush completes the compressed stream.
func (c *compressCodec) NewSink(w io.Writer) ferry.Sink {
	zw, err := c.wrap(w)
	if err != nil {
		return &failedSink{err: fmt.Errorf("%s: %w", c.encoding, err)}
	}
	return &Sink{Sink: c.inner.NewSink(zw), zw: zw}
}

// Sink forwards events to the wrapped codec's sink. Optional sink
// capabilities of the wrapped sink are preserved.
type Sink struct {
	ferry.Sink
	zw io.WriteCloser
}

// BeginTuple forwards the tuple hint when the wrapped sink takes it.
func (s *Sink) BeginTuple(size int) error {
	if t, ok := s.Sink.(ferry.TupleSink); ok {
		return t.BeginTuple(size)
	}
	return s.Sink.BeginSeq(size)
}

func (s *Sink) EndTuple() error {
	if t, ok := s.Sink.(ferry.TupleSink); ok {
		return t.EndTuple()
	}
	return s.Sink.EndSeq()
}

// WriteBigInt forwards to the wrapped sink, narrowing to a native integer
// when the wrapped sink has no big integer support.
func (s *Sink) WriteBigInt(v *big.Int) error {
	if b, ok := s.Sink.(ferry.BigIntSink); ok {
		return b.WriteBigInt(v)
	}
	switch {
	case v.IsInt64():
		return s.Sink.WriteInt(v.Int64())
	case v.IsUint64():
		return s.Sink.WriteUint(v.Uint64())
	}
	return fmt.Errorf("integer %s out of range", v)
}

// Flush flushes the wrapped sink and closes the compressor.
func (s *Sink) Flush() error {
	if f, ok := s.Sink.(ferry.Flusher); ok {
		if err := f.Flush(); err != nil {
			_ = s.zw.Close()
			return err
		}
	}
	return s.zw.Close()
}

// Close closes the compressor without flushing the wrapped sink. MarshalTo
// calls it when encoding fails.
func (s *Sink) Close() error {
	return s.zw.Close()
}

// failedSink reports a compressor setup error on every call.
type failedSink struct {
	err error
}

func (f *failedSink) NativeKeys() bool { return false }
func (f *failedSink) BeginMap(int) error { return f.err }
func (f *failedSink) EndMap() error { return f.err }
func (f *failedSink) BeginSeq(int) error { return f.err }
func (f *failedSink) EndSeq() error { return f.err }
func (f *failedSink) WriteKey(string) error { return f.err }
func (f *failedSink) WriteNull() error { return f.err }
func (f *failedSink) WriteBool(bool) error { return f.err }
func (f *failedSink) WriteInt(int64) error { return f.err }
func (f *failedSink) WriteUint(uint64) error { return f.err }
func (f *failedSink) WriteFloat(float64) error { return f.err }
func (f *failedSink) WriteString(string) error { return f.err }
func (f *failedSink) WriteBytes([]byte) error { return f.err }
