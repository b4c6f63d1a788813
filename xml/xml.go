// Package xml provides a streaming XML codec.
//
// Values are written as typed elements:
//
//	<map><entry key="name"><string>ferry</string></entry></map>
//	<seq><int>1</int><float>2.5</float><null/></seq>
//
// Bytes are base64 encoded inside a <bytes> element.
package xml

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"io"
	"math/big"
	"strconv"

	"github.com/zoobzio/ferry"
)

var (
	errUnbalanced    = errors.New("xml: unbalanced container")
	errKeyOutsideMap = errors.New("xml: key written outside map")
	errValueNoKey    = errors.New("xml: value written without key")
	errMultipleRoots = errors.New("xml: more than one root value")
)

// xmlCodec implements ferry.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() ferry.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// NewSink returns an XML sink writing to w.
func (c *xmlCodec) NewSink(w io.Writer) ferry.Sink {
	return NewSink(w)
}

// Sink writes XML tokens through an xml.Encoder. Output is buffered until
// Flush.
type Sink struct {
	enc   *xml.Encoder
	stack []frame
	done  bool
}

type frame struct {
	isMap bool
	keyed bool
}

// NewSink returns an XML sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{enc: xml.NewEncoder(w)}
}

// NativeKeys is false: keys are attribute text.
func (s *Sink) NativeKeys() bool { return false }

// Flush writes buffered tokens to the underlying writer.
func (s *Sink) Flush() error { return s.enc.Flush() }

func (s *Sink) BeginMap(int) error { return s.open("map", true) }
func (s *Sink) EndMap() error { return s.close("map", true) }
func (s *Sink) BeginSeq(int) error { return s.open("seq", false) }
func (s *Sink) EndSeq() error { return s.close("seq", false) }

func (s *Sink) WriteKey(key string) error {
	if len(s.stack) == 0 {
		return errKeyOutsideMap
	}
	top := &s.stack[len(s.stack)-1]
	if !top.isMap || top.keyed {
		return errKeyOutsideMap
	}
	top.keyed = true
	return s.enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: "entry"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "key"}, Value: key}},
	})
}

func (s *Sink) WriteNull() error {
	if err := s.pre(); err != nil {
		return err
	}
	start := xml.StartElement{Name: xml.Name{Local: "null"}}
	if err := s.enc.EncodeToken(start); err != nil {
		return err
	}
	if err := s.enc.EncodeToken(start.End()); err != nil {
		return err
	}
	return s.post()
}

func (s *Sink) WriteBool(v bool) error { return s.scalar("bool", strconv.FormatBool(v)) }
func (s *Sink) WriteInt(v int64) error { return s.scalar("int", strconv.FormatInt(v, 10)) }
func (s *Sink) WriteUint(v uint64) error { return s.scalar("int", strconv.FormatUint(v, 10)) }
func (s *Sink) WriteBigInt(v *big.Int) error { return s.scalar("int", v.String()) }
func (s *Sink) WriteString(v string) error { return s.scalar("string", v) }

func (s *Sink) WriteFloat(v float64) error {
	return s.scalar("float", strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *Sink) WriteBytes(v []byte) error {
	return s.scalar("bytes", base64.StdEncoding.EncodeToString(v))
}

func (s *Sink) scalar(name, text string) error {
	if err := s.pre(); err != nil {
		return err
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := s.enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := s.enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	if err := s.enc.EncodeToken(start.End()); err != nil {
		return err
	}
	return s.post()
}

func (s *Sink) open(name string, isMap bool) error {
	if err := s.pre(); err != nil {
		return err
	}
	s.stack = append(s.stack, frame{isMap: isMap})
	return s.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
}

func (s *Sink) close(name string, isMap bool) error {
	if len(s.stack) == 0 {
		return errUnbalanced
	}
	top := s.stack[len(s.stack)-1]
	if top.isMap != isMap || top.keyed {
		return errUnbalanced
	}
	s.stack = s.stack[:len(s.stack)-1]
	if err := s.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}}); err != nil {
		return err
	}
	return s.post()
}

// pre checks that a value may start here.
func (s *Sink) pre() error {
	if len(s.stack) == 0 {
		if s.done {
			return errMultipleRoots
		}
		s.done = true
		return nil
	}
	top := s.stack[len(s.stack)-1]
	if top.isMap && !top.keyed {
		return errValueNoKey
	}
	return nil
}

// post closes the entry element around a finished map value.
func (s *Sink) post() error {
	if len(s.stack) == 0 {
		return nil
	}
	top := &s.stack[len(s.stack)-1]
	if !top.isMap {
		return nil
	}
	top.keyed = false
	return s.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "entry"}})
}
