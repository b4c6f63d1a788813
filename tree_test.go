package ferry_test

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/zoobzio/ferry"
	ferrytest "github.com/zoobzio/ferry/testing"
)

func TestToTree(t *testing.T) {
	huge, _ := new(big.Int).SetString("99999999999999999999", 10)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"scalar", 5, int64(5)},
		{"uint", uint(5), uint64(5)},
		{"nil", nil, nil},
		{
			"nested",
			ferry.Map{{Key: "a", Value: 1}, {Key: "b", Value: []any{true, nil, 2.5}}},
			ferry.Map{{Key: "a", Value: int64(1)}, {Key: "b", Value: []any{true, nil, 2.5}}},
		},
		{
			"native keys",
			map[int]string{2: "b", 1: "a"},
			ferry.Map{{Key: int64(1), Value: "a"}, {Key: int64(2), Value: "b"}},
		},
		{"tuple", ferry.Tuple{"x", 1}, ferry.Tuple{"x", int64(1)}},
		{"record", ferrytest.Point{X: 1, Y: "s"}, ferry.Map{{Key: "x", Value: int64(1)}, {Key: "y", Value: "s"}}},
		{"big int", huge, huge},
		{"bytes", []byte("hi"), []byte("hi")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ferry.ToTree(tt.in)
			if err != nil {
				t.Fatalf("ToTree() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToTree() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTree_Unbalanced(t *testing.T) {
	tr := ferry.NewTree()
	if err := tr.EndMap(); err == nil {
		t.Error("EndMap() on empty tree should fail")
	}

	tr = ferry.NewTree()
	_ = tr.BeginSeq(0)
	if err := tr.EndMap(); err == nil {
		t.Error("EndMap() closing a sequence should fail")
	}
}

func TestTree_SecondRoot(t *testing.T) {
	tr := ferry.NewTree()
	if err := tr.WriteInt(1); err != nil {
		t.Fatalf("WriteInt() error: %v", err)
	}
	if err := tr.WriteInt(2); err == nil {
		t.Error("second root value should fail")
	}
}
