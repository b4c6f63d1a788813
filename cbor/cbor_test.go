package cbor

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/zoobzio/ferry"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/cbor" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/cbor")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	type payload struct {
		Name  string   `cbor:"name"`
		Count uint64   `cbor:"count"`
		Tags  []string `cbor:"tags"`
		Data  []byte   `cbor:"data"`
	}

	in := ferry.Map{
		{Key: "name", Value: "ferry"},
		{Key: "count", Value: uint64(1 << 40)},
		{Key: "tags", Value: []any{"a", "b"}},
		{Key: "data", Value: []byte("xyz")},
	}

	data, err := ferry.Marshal(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out payload
	if err := cbor.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Name != "ferry" || out.Count != 1<<40 || len(out.Tags) != 2 || string(out.Data) != "xyz" {
		t.Errorf("Unmarshal() = %+v", out)
	}
}

func TestMarshal_IndefiniteLength(t *testing.T) {
	data, err := ferry.Marshal(context.Background(), New(), []int{1})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	// indefinite array header, 1, break
	if want := []byte{0x9f, 0x01, 0xff}; !bytes.Equal(data, want) {
		t.Errorf("Marshal() = % x, want % x", data, want)
	}
}

func TestMarshal_BigInt(t *testing.T) {
	huge, _ := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	data, err := ferry.Marshal(context.Background(), New(), huge)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out big.Int
	if err := cbor.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out.Cmp(huge) != 0 {
		t.Errorf("Unmarshal() = %s, want %s", &out, huge)
	}
}

func TestMarshal_NativeKeys(t *testing.T) {
	data, err := ferry.Marshal(context.Background(), New(), map[int]bool{-1: true, 5: false})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out map[int]bool
	if err := cbor.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !out[-1] || out[5] || len(out) != 2 {
		t.Errorf("Unmarshal() = %v", out)
	}
}
