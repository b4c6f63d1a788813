package ferry

import (
	"errors"
	"math/big"
)

// Tree is a sink that builds a generic value tree:
//
//   - maps become Map (insertion ordered, keys of any scalar type)
//   - sequences become []any, tuples become Tuple
//   - scalars become nil, bool, int64, uint64, *big.Int, float64, string or []byte
//
// It is handy for inspection, tests and for handing the structured model to
// code that wants plain values.
type Tree struct {
	stack []*treeFrame
	root  any
	done  bool
}

type treeFrame struct {
	m      Map
	seq    []any
	isMap  bool
	key    any
	hasKey bool
}

var errTreeUnbalanced = errors.New("tree: unbalanced container")

// NewTree returns an empty Tree sink.
func NewTree() *Tree { return &Tree{} }

// Value returns the built root value.
func (t *Tree) Value() any { return t.root }

// ToTree encodes v into a generic value tree.
func ToTree(v any, opts ...Option) (any, error) {
	t := NewTree()
	if err := Encode(t, v, opts...); err != nil {
		return nil, err
	}
	return t.Value(), nil
}

func (t *Tree) NativeKeys() bool { return true }

func (t *Tree) BeginMap(size int) error {
	t.stack = append(t.stack, &treeFrame{isMap: true, m: make(Map, 0, max(size, 0))})
	return nil
}

func (t *Tree) EndMap() error {
	f, err := t.pop(true)
	if err != nil {
		return err
	}
	return t.put(f.m)
}

func (t *Tree) BeginSeq(size int) error {
	t.stack = append(t.stack, &treeFrame{seq: make([]any, 0, max(size, 0))})
	return nil
}

func (t *Tree) EndSeq() error {
	f, err := t.pop(false)
	if err != nil {
		return err
	}
	return t.put(f.seq)
}

func (t *Tree) BeginTuple(size int) error {
	t.stack = append(t.stack, &treeFrame{seq: make([]any, 0, size)})
	return nil
}

func (t *Tree) EndTuple() error {
	f, err := t.pop(false)
	if err != nil {
		return err
	}
	return t.put(Tuple(f.seq))
}

func (t *Tree) WriteKey(key string) error { return t.put(key) }
func (t *Tree) WriteNull() error { return t.put(nil) }
func (t *Tree) WriteBool(v bool) error { return t.put(v) }
func (t *Tree) WriteInt(v int64) error { return t.put(v) }
func (t *Tree) WriteUint(v uint64) error { return t.put(v) }
func (t *Tree) WriteFloat(v float64) error { return t.put(v) }
func (t *Tree) WriteString(v string) error { return t.put(v) }
func (t *Tree) WriteBigInt(v *big.Int) error { return t.put(new(big.Int).Set(v)) }
func (t *Tree) WriteBytes(v []byte) error { return t.put(append([]byte(nil), v...)) }

func (t *Tree) pop(isMap bool) (*treeFrame, error) {
	if len(t.stack) == 0 {
		return nil, errTreeUnbalanced
	}
	f := t.stack[len(t.stack)-1]
	if f.isMap != isMap || f.hasKey {
		return nil, errTreeUnbalanced
	}
	t.stack = t.stack[:len(t.stack)-1]
	return f, nil
}

// put places a finished value into the enclosing container, alternating key
// and value inside maps.
func (t *Tree) put(v any) error {
	if len(t.stack) == 0 {
		if t.done {
			return errors.New("tree: root already written")
		}
		t.root, t.done = v, true
		return nil
	}
	f := t.stack[len(t.stack)-1]
	if !f.isMap {
		f.seq = append(f.seq, v)
		return nil
	}
	if !f.hasKey {
		f.key, f.hasKey = v, true
		return nil
	}
	f.m = append(f.m, Pair{Key: f.key, Value: v})
	f.key, f.hasKey = nil, false
	return nil
}
