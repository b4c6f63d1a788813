package yaml

import (
	"context"
	"strings"
	"testing"

	"github.com/zoobzio/ferry"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := ferry.Map{
		{Key: "name", Value: "ferry"},
		{Key: "flag", Value: "true"},
		{Key: "count", Value: 3},
		{Key: "ratio", Value: 2.0},
		{Key: "tags", Value: []any{"a", "b"}},
		{Key: "empty", Value: nil},
	}

	data, err := ferry.Marshal(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v\n%s", err, data)
	}
	if out["name"] != "ferry" {
		t.Errorf("name = %v, want ferry", out["name"])
	}
	if out["flag"] != "true" {
		t.Errorf("flag = %#v, want the string \"true\"", out["flag"])
	}
	if out["count"] != 3 {
		t.Errorf("count = %#v, want 3", out["count"])
	}
	if out["ratio"] != 2.0 {
		t.Errorf("ratio = %#v, want 2.0", out["ratio"])
	}
	if tags, ok := out["tags"].([]any); !ok || len(tags) != 2 {
		t.Errorf("tags = %#v, want two items", out["tags"])
	}
	if v, ok := out["empty"]; !ok || v != nil {
		t.Errorf("empty = %#v, want null", v)
	}
}

func TestMarshal_KeepsOrder(t *testing.T) {
	in := ferry.Map{{Key: "zeta", Value: 1}, {Key: "alpha", Value: 2}}
	data, err := ferry.Marshal(context.Background(), New(), in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if got, want := string(data), "zeta: 1\nalpha: 2\n"; got != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestMarshal_TupleFlowStyle(t *testing.T) {
	data, err := ferry.Marshal(context.Background(), New(), ferry.Map{{Key: "point", Value: ferry.Tuple{1, 2}}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "point: [1, 2]") {
		t.Errorf("Marshal() = %q, want flow-style tuple", data)
	}
}

func TestMarshal_NativeKeys(t *testing.T) {
	data, err := ferry.Marshal(context.Background(), New(), map[int]string{1: "a", 2: "b"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out map[int]string
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out[1] != "a" || out[2] != "b" {
		t.Errorf("Unmarshal() = %v, want int keys", out)
	}
}

func TestMarshal_Bytes(t *testing.T) {
	data, err := ferry.Marshal(context.Background(), New(), []byte("hi"))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.HasPrefix(string(data), "!!binary") {
		t.Errorf("Marshal() = %q, want !!binary tag", data)
	}
	var out string
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if out != "hi" {
		t.Errorf("Unmarshal() = %q, want %q", out, "hi")
	}
}

func TestSink_FlushWithoutRoot(t *testing.T) {
	s := NewSink(&strings.Builder{})
	if err := s.Flush(); err == nil {
		t.Error("Flush() without a root should fail")
	}
}
