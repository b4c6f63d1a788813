package compress

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zoobzio/ferry"
	"github.com/zoobzio/ferry/json"
	"github.com/zoobzio/ferry/msgpack"
)

var sample = ferry.Map{
	{Key: "name", Value: "ferry"},
	{Key: "items", Value: []int{1, 2, 3}},
	{Key: "pair", Value: ferry.Tuple{1, "a"}},
}

func TestContentEncoding(t *testing.T) {
	tests := []struct {
		codec Codec
		want  string
	}{
		{Zstd(json.New()), "zstd"},
		{LZ4(json.New()), "lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.codec.ContentEncoding(); got != tt.want {
				t.Errorf("ContentEncoding() = %q, want %q", got, tt.want)
			}
			if got := tt.codec.ContentType(); got != "application/json" {
				t.Errorf("ContentType() = %q, want application/json", got)
			}
		})
	}
}

func TestZstd_RoundTrip(t *testing.T) {
	plain, err := ferry.Marshal(context.Background(), json.New(), sample)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	packed, err := ferry.Marshal(context.Background(), Zstd(json.New()), sample)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	defer dec.Close()

	got, err := dec.DecodeAll(packed, nil)
	if err != nil {
		t.Fatalf("DecodeAll() error: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("decompressed = %s, want %s", got, plain)
	}
}

func TestLZ4_RoundTrip(t *testing.T) {
	plain, err := ferry.Marshal(context.Background(), msgpack.New(), sample)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	packed, err := ferry.Marshal(context.Background(), LZ4(msgpack.New()), sample)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	got, err := io.ReadAll(lz4.NewReader(bytes.NewReader(packed)))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("decompressed = %x, want %x", got, plain)
	}
}

func TestSink_BigIntNarrowing(t *testing.T) {
	var buf bytes.Buffer
	s := LZ4(msgpack.New()).NewSink(&buf).(*Sink)

	if err := s.WriteBigInt(big.NewInt(-5)); err != nil {
		t.Errorf("WriteBigInt(-5) error: %v", err)
	}

	huge, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	s = LZ4(msgpack.New()).NewSink(&buf).(*Sink)
	if err := s.WriteBigInt(huge); err == nil {
		t.Error("WriteBigInt() out of range should fail")
	}
}

func TestMarshal_ClosesOnError(t *testing.T) {
	var buf bytes.Buffer
	c := Zstd(json.New(), zstd.WithZeroFrames(true))
	err := ferry.MarshalTo(context.Background(), &buf, c, []any{1, make(chan int)})
	if err == nil {
		t.Fatal("MarshalTo() should fail for an unsupported value")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	defer dec.Close()

	// A closed zstd stream is a complete frame, even if it is empty.
	if _, err := dec.DecodeAll(buf.Bytes(), nil); err != nil {
		t.Errorf("DecodeAll() error: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("compressor was not closed: no frame written")
	}
}
