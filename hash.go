package ferry

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"
	"math"
	"math/big"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Digest stream tags. Every event is written as a tag byte followed by a
// fixed-width or length-prefixed payload, so distinct value trees never
// produce the same byte stream.
const (
	tagNull byte = iota + 1
	tagFalse
	tagTrue
	tagInt
	tagUint
	tagBigInt
	tagFloat
	tagString
	tagBytes
	tagKey
	tagMapBegin
	tagMapEnd
	tagSeqBegin
	tagSeqEnd
	tagTupleBegin
	tagTupleEnd
)

// newHash returns a fresh hash.Hash for algo.
func newHash(algo HashAlgo) (hash.Hash, error) {
	switch algo {
	case HashSHA256:
		return sha256.New(), nil
	case HashSHA512:
		return sha512.New(), nil
	case HashBLAKE2b:
		return blake2b.New256(nil)
	case HashBLAKE3:
		return blake3.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHashAlgo, algo)
}

// digestSink feeds sink events into a hash. Keys are taken natively so that
// the integer key 1 and the text key "1" hash differently.
type digestSink struct {
	h   hash.Hash
	buf [binary.MaxVarintLen64 + 1]byte
}

func (d *digestSink) NativeKeys() bool { return true }

func (d *digestSink) tag(t byte) error {
	_, err := d.h.Write([]byte{t})
	return err
}

func (d *digestSink) tagged(t byte, n uint64) error {
	d.buf[0] = t
	w := binary.PutUvarint(d.buf[1:], n)
	_, err := d.h.Write(d.buf[:w+1])
	return err
}

func (d *digestSink) payload(t byte, p []byte) error {
	if err := d.tagged(t, uint64(len(p))); err != nil {
		return err
	}
	_, err := d.h.Write(p)
	return err
}

func (d *digestSink) BeginMap(size int) error { return d.tagged(tagMapBegin, uint64(max(size, 0))) }
func (d *digestSink) EndMap() error { return d.tag(tagMapEnd) }
func (d *digestSink) BeginSeq(size int) error { return d.tagged(tagSeqBegin, uint64(max(size, 0))) }
func (d *digestSink) EndSeq() error { return d.tag(tagSeqEnd) }
func (d *digestSink) BeginTuple(size int) error { return d.tagged(tagTupleBegin, uint64(size)) }
func (d *digestSink) EndTuple() error { return d.tag(tagTupleEnd) }
func (d *digestSink) WriteKey(key string) error { return d.payload(tagKey, []byte(key)) }
func (d *digestSink) WriteNull() error { return d.tag(tagNull) }
func (d *digestSink) WriteString(v string) error { return d.payload(tagString, []byte(v)) }
func (d *digestSink) WriteBytes(v []byte) error { return d.payload(tagBytes, v) }

func (d *digestSink) WriteBool(v bool) error {
	if v {
		return d.tag(tagTrue)
	}
	return d.tag(tagFalse)
}

func (d *digestSink) WriteInt(v int64) error {
	d.buf[0] = tagInt
	binary.BigEndian.PutUint64(d.buf[1:9], uint64(v))
	_, err := d.h.Write(d.buf[:9])
	return err
}

func (d *digestSink) WriteUint(v uint64) error {
	d.buf[0] = tagUint
	binary.BigEndian.PutUint64(d.buf[1:9], v)
	_, err := d.h.Write(d.buf[:9])
	return err
}

// WriteFloat hashes the IEEE bits. All NaNs collapse to one value and
// negative zero to zero, so equal floats hash equally.
func (d *digestSink) WriteFloat(v float64) error {
	switch {
	case math.IsNaN(v):
		v = math.NaN()
	case v == 0:
		v = 0
	}
	d.buf[0] = tagFloat
	binary.BigEndian.PutUint64(d.buf[1:9], math.Float64bits(v))
	_, err := d.h.Write(d.buf[:9])
	return err
}

func (d *digestSink) WriteBigInt(v *big.Int) error {
	text, err := v.MarshalText()
	if err != nil {
		return err
	}
	return d.payload(tagBigInt, text)
}

// Fingerprint returns a digest of v's encoded form. Set members are sorted
// so that equal sets fingerprint equally regardless of iteration order.
// Go maps are always emitted in sorted key order.
func Fingerprint(ctx context.Context, v any, algo HashAlgo, opts ...Option) ([]byte, error) {
	start := time.Now()
	root := Classify(v)

	h, err := newHash(algo)
	if err != nil {
		emitFingerprintComplete(ctx, algo, root, time.Since(start), err)
		return nil, err
	}

	opts = append(opts[:len(opts):len(opts)], WithSortedSets())
	err = Encode(&digestSink{h: h}, v, opts...)
	emitFingerprintComplete(ctx, algo, root, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
