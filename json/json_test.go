package json

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"

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
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"scalar", 42, "42"},
		{"float", 0.5, "0.5"},
		{"large float", 1e21, "1e+21"},
		{"string escaping", "a\"b<\n", `"a\"b<\n"`},
		{"bytes", []byte("hi"), `"aGk="`},
		{"empty containers", ferry.Map{{Key: "m", Value: map[string]int{}}, {Key: "s", Value: []int{}}}, `{"m":{},"s":[]}`},
		{"int keys", map[int]bool{2: true, 10: false}, `{"2":true,"10":false}`},
		{"nested", ferry.Map{{Key: "a", Value: 1}, {Key: "b", Value: []any{true, nil, 2.5}}}, `{"a":1,"b":[true,null,2.5]}`},
		{"tuple", ferry.Tuple{1, "x"}, `[1,"x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ferry.Marshal(context.Background(), New(), tt.in)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
			if !json.Valid(data) {
				t.Errorf("Marshal() produced invalid JSON: %s", data)
			}
		})
	}
}

func TestMarshal_BigInt(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	data, err := ferry.Marshal(context.Background(), New(), []any{huge})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if got, want := string(data), "[123456789012345678901234567890]"; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestMarshal_NonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ferry.Marshal(context.Background(), New(), f)
		if !errors.Is(err, ferry.ErrSinkRejected) {
			t.Errorf("Marshal(%v) error = %v, want ErrSinkRejected", f, err)
		}
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	type Item struct {
		Name  string   `json:"name"`
		Value int      `json:"value"`
		Tags  []string `json:"tags"`
	}

	original := Item{Name: "test", Value: 42, Tags: []string{"a", "b"}}
	data, err := ferry.Marshal(context.Background(), New(), original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored Item
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Name != original.Name || restored.Value != original.Value || len(restored.Tags) != 2 {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestSink_Misuse(t *testing.T) {
	var buf bytes.Buffer

	s := NewSink(&buf)
	_ = s.BeginMap(1)
	if err := s.WriteInt(1); err == nil {
		t.Error("value without key should fail")
	}

	s = NewSink(&buf)
	if err := s.WriteKey("k"); err == nil {
		t.Error("key outside map should fail")
	}

	s = NewSink(&buf)
	_ = s.WriteInt(1)
	if err := s.WriteInt(2); err == nil {
		t.Error("second root should fail")
	}

	s = NewSink(&buf)
	_ = s.BeginSeq(0)
	if err := s.EndMap(); err == nil {
		t.Error("mismatched end should fail")
	}
}
