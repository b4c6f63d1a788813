package ferry_test

import (
	"errors"
	"math/big"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/ferry"
	ferrytest "github.com/zoobzio/ferry/testing"
)

type upper string

func (u upper) MarshalText() ([]byte, error) {
	return []byte("UP:" + string(u)), nil
}

func TestEncode_KeyText(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name string
		key  any
		want string
	}{
		{"text", "name", "key:name"},
		{"int", -4, "key:-4"},
		{"uint", uint8(200), "key:200"},
		{"float64", 0.1, "key:0.1"},
		{"float32", float32(0.1), "key:0.1"},
		{"bool", false, "key:false"},
		{"none", nil, "key:null"},
		{"big int", big.NewInt(12), "key:12"},
		{"duration", 2 * time.Minute, "key:2m0s"},
		{"ip", netip.MustParseAddr("10.0.0.1"), "key:10.0.0.1"},
		{"uuid", id, "key:" + id.String()},
		{"text marshaler", upper("x"), "key:UP:x"},
		{"tuple", ferry.Tuple{1, "a", true}, "key:1,a,true"},
		{"array", [2]int{3, 4}, "key:3,4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ferrytest.Events(t, ferry.Map{{Key: tt.key, Value: 0}})
			want := "map(1) " + tt.want + " int:0 end-map"
			if got != want {
				t.Errorf("Encode() = %q, want %q", got, want)
			}
		})
	}
}

func TestEncode_NativeKeys(t *testing.T) {
	tests := []struct {
		name string
		key  any
		want string
	}{
		{"int", 7, "int:7"},
		{"uint", uint(7), "uint:7"},
		{"float", 1.5, "float:1.5"},
		{"bool", true, "bool:true"},
		{"none", nil, "null"},
		{"text", "s", "key:s"},
		{"domain stays text", 3 * time.Second, "key:3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ferrytest.Recorder{Native: true}
			if err := ferry.Encode(r, ferry.Map{{Key: tt.key, Value: 0}}); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			want := "map(1) " + tt.want + " int:0 end-map"
			if got := r.String(); got != want {
				t.Errorf("Encode() = %q, want %q", got, want)
			}
		})
	}
}

func TestEncode_KeyNotRepresentable(t *testing.T) {
	tests := []struct {
		name string
		key  any
	}{
		{"struct", ferrytest.Point{X: 1}},
		{"tuple with struct", ferry.Tuple{1, ferrytest.Point{}}},
		{"channel", make(chan int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ferrytest.NewRecorder()
			err := ferry.Encode(r, ferry.Map{{Key: tt.key, Value: 1}})
			if !errors.Is(err, ferry.ErrKeyNotRepresentable) {
				t.Fatalf("Encode() error = %v, want ErrKeyNotRepresentable", err)
			}
			if !r.Balanced() {
				t.Errorf("sink left unbalanced: %q", r)
			}
		})
	}
}

func TestEncode_SortedSets(t *testing.T) {
	s := ferry.NewSet("pear", "apple", "fig")
	got := ferrytest.Events(t, s, ferry.WithSortedSets())
	want := "seq(3) string:apple string:fig string:pear end-seq"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}
