package bson

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/zoobzio/ferry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := ferry.Map{
		{Key: "name", Value: "ferry"},
		{Key: "count", Value: 42},
		{Key: "ok", Value: true},
		{Key: "items", Value: []any{1.5, "x", nil}},
		{Key: "nested", Value: map[string]int{"a": 1}},
	}

	data, err := ferry.Marshal(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out bson.M
	if err := bson.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out["name"] != "ferry" {
		t.Errorf("name = %v, want ferry", out["name"])
	}
	if out["count"] != int64(42) {
		t.Errorf("count = %v (%T), want int64 42", out["count"], out["count"])
	}
	if out["ok"] != true {
		t.Errorf("ok = %v, want true", out["ok"])
	}
	items, ok := out["items"].(bson.A)
	if !ok || len(items) != 3 || items[0] != 1.5 || items[2] != nil {
		t.Errorf("items = %#v", out["items"])
	}
	nested, ok := out["nested"].(bson.M)
	if !ok || nested["a"] != int64(1) {
		t.Errorf("nested = %#v", out["nested"])
	}
}

func TestMarshal_KeepsOrder(t *testing.T) {
	in := ferry.Map{{Key: "z", Value: 1}, {Key: "a", Value: 2}}
	data, err := ferry.Marshal(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out bson.D
	if err := bson.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(out) != 2 || out[0].Key != "z" || out[1].Key != "a" {
		t.Errorf("Unmarshal() = %v", out)
	}
}

func TestMarshal_RootNotDocument(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"scalar", 1},
		{"sequence", []int{1, 2}},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ferry.Marshal(context.Background(), New(), tt.in)
			if !errors.Is(err, ErrRootNotDocument) {
				t.Errorf("Marshal() error = %v, want ErrRootNotDocument", err)
			}
		})
	}
}

func TestSink_LargeIntegers(t *testing.T) {
	s := NewSink(nil)
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	err := ferry.Encode(s, ferry.Map{
		{Key: "max", Value: uint64(math.MaxUint64)},
		{Key: "small", Value: uint64(7)},
		{Key: "big", Value: huge},
	})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	doc, err := s.Document()
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}

	want, _ := primitive.ParseDecimal128FromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)
	if doc[0].Value != want {
		t.Errorf("max = %v, want %v", doc[0].Value, want)
	}
	if doc[1].Value != int64(7) {
		t.Errorf("small = %v (%T), want int64 7", doc[1].Value, doc[1].Value)
	}
	wantBig, _ := primitive.ParseDecimal128FromBigInt(huge, 0)
	if doc[2].Value != wantBig {
		t.Errorf("big = %v, want %v", doc[2].Value, wantBig)
	}
}

func TestSink_Bytes(t *testing.T) {
	s := NewSink(nil)
	if err := ferry.Encode(s, ferry.Map{{Key: "b", Value: []byte{9}}}); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	doc, err := s.Document()
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	bin, ok := doc[0].Value.(primitive.Binary)
	if !ok || len(bin.Data) != 1 || bin.Data[0] != 9 {
		t.Errorf("b = %#v, want Binary{9}", doc[0].Value)
	}
}

func TestSink_DocumentIncomplete(t *testing.T) {
	s := NewSink(nil)
	if err := s.BeginMap(0); err != nil {
		t.Fatalf("BeginMap() error: %v", err)
	}
	if _, err := s.Document(); err == nil {
		t.Error("Document() should fail while a container is open")
	}
}
