package ferry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrRecursionLimit indicates the value graph is nested deeper than the
	// configured maximum, or is cyclic.
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrKeyNotRepresentable indicates a mapping key has no canonical text form.
	ErrKeyNotRepresentable = errors.New("key not representable")

	// ErrNotARecord indicates a value could not be classified and neither its
	// field declarations nor a fallback transform produced something encodable.
	ErrNotARecord = errors.New("not a record")

	// ErrSinkRejected indicates the backend refused a write.
	ErrSinkRejected = errors.New("sink rejected write")

	// ErrFallback indicates the fallback transform itself failed.
	ErrFallback = errors.New("fallback failed")

	// ErrMarshalText indicates a text-marshaler value failed to render.
	ErrMarshalText = errors.New("marshal text failed")

	// ErrUnknownHashAlgo indicates Fingerprint was asked for an unsupported
	// digest algorithm.
	ErrUnknownHashAlgo = errors.New("unknown hash algorithm")
)

// EncodeError describes a failed encode. It wraps one of the sentinel errors
// and, for sink and fallback failures, the original cause.
type EncodeError struct {
	Err   error  // Underlying sentinel error (ErrRecursionLimit, etc.)
	Kind  Kind   // Kind of the offending value, when known
	Type  string // Go type of the offending value, when known
	Cause error  // Original error from the sink or fallback

	// path segments, innermost first; rendered by Path
	segments []string
}

// Path returns the location of the offending value, e.g. "$.b[2]".
func (e *EncodeError) Path() string {
	var b strings.Builder
	b.WriteString("$")
	for i := len(e.segments) - 1; i >= 0; i-- {
		b.WriteString(e.segments[i])
	}
	return b.String()
}

func (e *EncodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Type != "" {
		fmt.Fprintf(&b, " (type %s)", e.Type)
	}
	b.WriteString(" at ")
	b.WriteString(e.Path())
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As,
// so a backend error passes through unchanged.
func (e *EncodeError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// newEncodeError creates an EncodeError for a value of the given kind and type.
func newEncodeError(sentinel error, kind Kind, typeName string, cause error) *EncodeError {
	return &EncodeError{
		Err:   sentinel,
		Kind:  kind,
		Type:  typeName,
		Cause: cause,
	}
}

// sinkError wraps an error returned by a sink write.
func sinkError(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	var ee *EncodeError
	if errors.As(cause, &ee) {
		return cause
	}
	return newEncodeError(ErrSinkRejected, kind, "", cause)
}

// atIndex records a sequence position on an unwinding error.
func atIndex(err error, i int) error {
	return withSegment(err, fmt.Sprintf("[%d]", i))
}

// atKey records a mapping key or field name on an unwinding error.
func atKey(err error, key string) error {
	return withSegment(err, "."+key)
}

func withSegment(err error, seg string) error {
	var ee *EncodeError
	if errors.As(err, &ee) {
		ee.segments = append(ee.segments, seg)
	}
	return err
}
