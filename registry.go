package ferry

import (
	"math/big"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"reflect"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// renderFunc produces the canonical text of a domain value.
type renderFunc func(rv reflect.Value) string

// typeEntry is one registry row.
type typeEntry struct {
	kind   Kind
	render renderFunc // nil for non-domain kinds
}

// The registry is written exactly once, inside registryOnce, and only read
// afterwards. Reads need no lock.
var (
	registry     map[reflect.Type]typeEntry
	registryOnce sync.Once
)

// Resolve returns the Kind registered for t. The boolean is false when t is
// not registered; that is not an error, the classifier then probes structure.
func Resolve(t reflect.Type) (Kind, bool) {
	e, ok := lookup(t)
	return e.kind, ok
}

// RegisteredTypes returns a copy of the registry.
func RegisteredTypes() map[reflect.Type]Kind {
	types := loadRegistry()
	out := make(map[reflect.Type]Kind, len(types))
	for t, e := range types {
		out[t] = e.kind
	}
	return out
}

func lookup(t reflect.Type) (typeEntry, bool) {
	e, ok := loadRegistry()[t]
	return e, ok
}

func loadRegistry() map[reflect.Type]typeEntry {
	registryOnce.Do(func() {
		registry = buildRegistry()
	})
	return registry
}

func buildRegistry() map[reflect.Type]typeEntry {
	r := make(map[reflect.Type]typeEntry, 48)

	plain := func(t reflect.Type, k Kind) { r[t] = typeEntry{kind: k} }

	plain(reflect.TypeFor[bool](), KindBool)
	for _, t := range []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](), reflect.TypeFor[uintptr](),
		reflect.TypeFor[big.Int](),
	} {
		plain(t, KindInt)
	}
	plain(reflect.TypeFor[float32](), KindFloat)
	plain(reflect.TypeFor[float64](), KindFloat)
	plain(reflect.TypeFor[string](), KindText)
	plain(reflect.TypeFor[[]byte](), KindBytes)
	plain(reflect.TypeFor[[]any](), KindSequence)
	plain(reflect.TypeFor[[]string](), KindSequence)
	plain(reflect.TypeFor[Tuple](), KindTuple)
	plain(reflect.TypeFor[map[string]any](), KindMapping)
	plain(reflect.TypeFor[map[any]any](), KindMapping)
	plain(reflect.TypeFor[Map](), KindMapping)
	plain(reflect.TypeFor[Set](), KindSet)
	plain(reflect.TypeFor[FrozenSet](), KindFrozenSet)
	plain(reflect.TypeFor[http.Header](), KindHeaders)

	domain := func(t reflect.Type, k Kind, f renderFunc) { r[t] = typeEntry{kind: k, render: f} }

	domain(reflect.TypeFor[time.Duration](), KindDuration, renderStringer)
	domain(reflect.TypeFor[civil.Date](), KindDate, renderStringer)
	domain(reflect.TypeFor[civil.Time](), KindTime, renderStringer)
	domain(reflect.TypeFor[civil.DateTime](), KindDateTime, renderStringer)
	domain(reflect.TypeFor[time.Time](), KindTimestamp, renderTimestamp)
	domain(reflect.TypeFor[time.Location](), KindTimeZone, renderStringer)

	domain(reflect.TypeFor[netip.Addr](), KindIPAddr, renderStringer)
	domain(reflect.TypeFor[net.IP](), KindIPAddr, renderStringer)
	domain(reflect.TypeFor[netip.Prefix](), KindIPNetwork, renderStringer)
	domain(reflect.TypeFor[net.IPNet](), KindIPNetwork, renderStringer)
	domain(reflect.TypeFor[netip.AddrPort](), KindSocketAddr, renderStringer)
	domain(reflect.TypeFor[net.TCPAddr](), KindSocketAddr, renderStringer)
	domain(reflect.TypeFor[net.UDPAddr](), KindSocketAddr, renderStringer)

	domain(reflect.TypeFor[url.URL](), KindURL, renderStringer)
	domain(reflect.TypeFor[HTTPStatus](), KindHTTPStatus, renderStringer)
	domain(reflect.TypeFor[uuid.UUID](), KindUUID, renderStringer)
	domain(reflect.TypeFor[ulid.ULID](), KindULID, renderStringer)

	return r
}

var stringerType = reflect.TypeFor[interface{ String() string }]()

// renderStringer calls String, taking the address of the value when the
// method has a pointer receiver (url.URL, net.IPNet, time.Location, ...).
func renderStringer(rv reflect.Value) string {
	if rv.Type().Implements(stringerType) {
		return rv.Interface().(interface{ String() string }).String()
	}
	return addressable(rv).Addr().Interface().(interface{ String() string }).String()
}

func renderTimestamp(rv reflect.Value) string {
	return rv.Interface().(time.Time).Format(time.RFC3339Nano)
}

// addressable returns rv itself when it can be addressed, otherwise an
// addressable copy.
func addressable(rv reflect.Value) reflect.Value {
	if rv.CanAddr() {
		return rv
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	return p.Elem()
}
