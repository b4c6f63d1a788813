package ferry

// Override interfaces let types bypass reflection-based field scanning.
// When a value implements one of these, the encoder calls the method
// instead of walking struct fields.
//
// They suit generated code well: a generator can emit RecordFields from
// struct tags and skip reflection on hot paths.

// Record is implemented by values that declare their own fields.
// It takes precedence over reflection for struct types.
type Record interface {
	// RecordFields returns the declared fields in declaration order.
	// Each value is encoded exactly as if it were held by a struct field.
	RecordFields() []Field
}

// Field is one declared field of a record.
type Field struct {
	Name  string
	Value any
}

// Fallback transforms a value the encoder cannot classify into one it can.
// It is called exactly once per unknown value; the result is classified and
// encoded in its place, one level deeper. Returning an error aborts the
// encode with ErrFallback.
type Fallback func(v any) (any, error)
