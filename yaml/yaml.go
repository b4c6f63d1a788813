// Package yaml provides a YAML codec built on yaml.v3 nodes.
package yaml

import (
	"encoding/base64"
	"errors"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zoobzio/ferry"
	"gopkg.in/yaml.v3"
)

var (
	errUnbalanced = errors.New("yaml: unbalanced container")
	errNoRoot     = errors.New("yaml: no root value")
	errRootTwice  = errors.New("yaml: more than one root value")
)

// yamlCodec implements ferry.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() ferry.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// NewSink returns a YAML sink writing to w.
func (c *yamlCodec) NewSink(w io.Writer) ferry.Sink {
	return NewSink(w)
}

// Sink assembles a yaml.Node document and renders it on Flush. Mapping
// order is kept as emitted, tuples render in flow style and scalar keys
// are written natively.
type Sink struct {
	w     io.Writer
	stack []*yaml.Node
	root  *yaml.Node
}

// NewSink returns a YAML sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Root returns the document node built so far.
func (s *Sink) Root() *yaml.Node { return s.root }

func (s *Sink) NativeKeys() bool { return true }

func (s *Sink) BeginMap(int) error {
	return s.open(&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
}

func (s *Sink) EndMap() error { return s.close(yaml.MappingNode) }

func (s *Sink) BeginSeq(int) error {
	return s.open(&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"})
}

func (s *Sink) EndSeq() error { return s.close(yaml.SequenceNode) }

func (s *Sink) BeginTuple(int) error {
	return s.open(&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle})
}

func (s *Sink) EndTuple() error { return s.close(yaml.SequenceNode) }

func (s *Sink) WriteKey(key string) error { return s.scalar("!!str", key) }

func (s *Sink) WriteNull() error { return s.scalar("!!null", "null") }

func (s *Sink) WriteBool(v bool) error {
	return s.scalar("!!bool", strconv.FormatBool(v))
}

func (s *Sink) WriteInt(v int64) error {
	return s.scalar("!!int", strconv.FormatInt(v, 10))
}

func (s *Sink) WriteUint(v uint64) error {
	return s.scalar("!!int", strconv.FormatUint(v, 10))
}

func (s *Sink) WriteBigInt(v *big.Int) error {
	return s.scalar("!!int", v.String())
}

func (s *Sink) WriteFloat(v float64) error {
	var text string
	switch {
	case math.IsNaN(v):
		text = ".nan"
	case math.IsInf(v, 1):
		text = ".inf"
	case math.IsInf(v, -1):
		text = "-.inf"
	default:
		text = strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(text, ".e") {
			// keep whole floats distinct from ints
			text += ".0"
		}
	}
	return s.scalar("!!float", text)
}

func (s *Sink) WriteString(v string) error { return s.scalar("!!str", v) }

func (s *Sink) WriteBytes(v []byte) error {
	return s.scalar("!!binary", base64.StdEncoding.EncodeToString(v))
}

// Flush renders the document. It fails if no complete root was written.
func (s *Sink) Flush() error {
	if s.root == nil || len(s.stack) > 0 {
		return errNoRoot
	}
	enc := yaml.NewEncoder(s.w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{s.root}}); err != nil {
		return err
	}
	return enc.Close()
}

func (s *Sink) scalar(tag, value string) error {
	return s.add(&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

func (s *Sink) open(n *yaml.Node) error {
	if err := s.add(n); err != nil {
		return err
	}
	s.stack = append(s.stack, n)
	return nil
}

func (s *Sink) close(kind yaml.Kind) error {
	if len(s.stack) == 0 {
		return errUnbalanced
	}
	top := s.stack[len(s.stack)-1]
	if top.Kind != kind || (kind == yaml.MappingNode && len(top.Content)%2 != 0) {
		return errUnbalanced
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// add attaches n to the open container, or makes it the root.
func (s *Sink) add(n *yaml.Node) error {
	if len(s.stack) == 0 {
		if s.root != nil {
			return errRootTwice
		}
		s.root = n
		return nil
	}
	top := s.stack[len(s.stack)-1]
	top.Content = append(top.Content, n)
	return nil
}
