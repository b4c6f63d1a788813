package ferry

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register field tags with sentinel
	sentinel.Tag("ferry")
	sentinel.Tag("json")
}

// recordPlan lists the declared fields of a struct type in declaration order.
type recordPlan struct {
	typeName string
	fields   []fieldPlan
}

// fieldPlan describes how to reach and name a single field.
type fieldPlan struct {
	name      string // emitted key
	index     []int  // reflect.Value.FieldByIndex access path
	omitEmpty bool   // skip zero values
	depth     int    // embedding depth, for name-clash resolution
}

// Plans are built once per type and shared by all encoders.
var (
	plans   = make(map[reflect.Type]*recordPlan)
	plansMu sync.RWMutex
)

// Prepare scans T with sentinel and caches its record plan, so the first
// encode of T pays no reflection cost. T must be a struct type.
func Prepare[T any]() error {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return newEncodeError(ErrNotARecord, classifyType(t), t.String(), nil)
	}

	meta := sentinel.Scan[T]()
	plan := planFromMetadata(t, meta)

	plansMu.Lock()
	defer plansMu.Unlock()
	plans[t] = plan
	return nil
}

// planFor returns a cached plan or builds a new one.
func planFor(t reflect.Type) *recordPlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[t]; ok {
		plansMu.RUnlock()
		return cached
	}
	plansMu.RUnlock()

	// Slow path: build and cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[t]; ok {
		return cached
	}

	// Sentinel caches by bare type name; planFromMetadata rejects
	// metadata that belongs to another type.
	var plan *recordPlan
	if meta, ok := sentinel.Lookup(t.Name()); ok {
		plan = planFromMetadata(t, meta)
	} else {
		plan = scanRecord(t)
	}
	plans[t] = plan
	return plan
}

// planFromMetadata builds a plan using the tags sentinel parsed for the
// top-level fields. The field walk itself is the reflection scan, so a
// prepared type encodes exactly like an unprepared one.
func planFromMetadata(t reflect.Type, meta sentinel.Metadata) *recordPlan {
	if !metadataMatches(t, meta) {
		return scanRecord(t)
	}

	declared := make(map[int]map[string]string, len(meta.Fields))
	for _, field := range meta.Fields {
		declared[field.Index[0]] = field.Tags
	}

	plan := &recordPlan{typeName: t.String()}
	visited := map[reflect.Type]bool{t: true}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, jsonTag := sf.Tag.Get("ferry"), sf.Tag.Get("json")
		if tags, ok := declared[i]; ok {
			tag, jsonTag = tags["ferry"], tags["json"]
		}
		plan.fields = appendField(plan.fields, sf, []int{i}, tag, jsonTag, 0, visited)
	}
	plan.fields = dedupeFields(plan.fields)
	return plan
}

// metadataMatches reports whether meta describes t: same package and name,
// and each exported field agrees on index, name, type and tags. Local types
// in one package can share a name, so the fields are checked too.
func metadataMatches(t reflect.Type, meta sentinel.Metadata) bool {
	if meta.TypeName != t.Name() || meta.PackageName != t.PkgPath() {
		return false
	}

	exported := 0
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			exported++
		}
	}
	if exported != len(meta.Fields) {
		return false
	}

	for _, field := range meta.Fields {
		if len(field.Index) != 1 || field.Index[0] >= t.NumField() {
			return false
		}
		sf := t.Field(field.Index[0])
		if sf.Name != field.Name || sf.Type != field.ReflectType {
			return false
		}
		if field.Tags["ferry"] != sf.Tag.Get("ferry") || field.Tags["json"] != sf.Tag.Get("json") {
			return false
		}
	}
	return true
}

// scanRecord builds a plan by reflection alone.
func scanRecord(t reflect.Type) *recordPlan {
	plan := &recordPlan{typeName: t.String()}
	plan.fields = dedupeFields(scanFields(t, nil, 0, map[reflect.Type]bool{t: true}))
	return plan
}

func scanFields(t reflect.Type, prefix []int, depth int, visited map[reflect.Type]bool) []fieldPlan {
	var out []fieldPlan
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int{}, prefix...), i)
		out = appendField(out, sf, index, sf.Tag.Get("ferry"), sf.Tag.Get("json"), depth, visited)
	}
	return out
}

// appendField applies the declared-field filter: unexported fields and
// fields tagged "-" are dropped, untagged embedded structs are flattened.
func appendField(out []fieldPlan, sf reflect.StructField, index []int, tag, jsonTag string, depth int, visited map[reflect.Type]bool) []fieldPlan {
	name, opts := parseTag(tag)
	if tag == "" {
		name, opts = parseTag(jsonTag)
	}
	if name == "-" && opts == "" {
		return out
	}

	if sf.Anonymous && name == "" {
		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && !visited[ft] {
			visited[ft] = true
			out = append(out, scanFields(ft, index, depth+1, visited)...)
			delete(visited, ft)
			return out
		}
	}

	if !sf.IsExported() {
		return out
	}
	if name == "" {
		name = sf.Name
	}
	return append(out, fieldPlan{
		name:      name,
		index:     index,
		omitEmpty: hasOption(opts, "omitempty"),
		depth:     depth,
	})
}

// dedupeFields keeps, for each name, the shallowest field (first on a tie),
// preserving declaration order.
func dedupeFields(fields []fieldPlan) []fieldPlan {
	best := make(map[string]int, len(fields))
	for i, f := range fields {
		if j, ok := best[f.name]; !ok || f.depth < fields[j].depth {
			best[f.name] = i
		}
	}
	out := fields[:0:0]
	for i, f := range fields {
		if best[f.name] == i {
			out = append(out, f)
		}
	}
	return out
}

func parseTag(tag string) (name, opts string) {
	name, opts, _ = strings.Cut(tag, ",")
	return name, opts
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

// encodeRecord writes a record as a mapping of field name to field value.
func (st *state) encodeRecord(rv reflect.Value, depth int) error {
	if err := st.descend(KindRecord, rv, depth); err != nil {
		return err
	}

	if r, ok := asRecord(rv); ok {
		return st.encodeFields(r.RecordFields(), depth)
	}
	if rv.Kind() != reflect.Struct {
		return newEncodeError(ErrNotARecord, KindRecord, rv.Type().String(), nil)
	}

	plan := planFor(rv.Type())
	values := make([]reflect.Value, 0, len(plan.fields))
	names := make([]string, 0, len(plan.fields))
	for _, f := range plan.fields {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			// nil embedded pointer: its promoted fields do not exist
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		values = append(values, fv)
		names = append(names, f.name)
	}

	if err := st.sink.BeginMap(len(values)); err != nil {
		return sinkError(KindRecord, err)
	}
	for i, fv := range values {
		if err := st.writeField(names[i], fv, depth); err != nil {
			_ = st.sink.EndMap()
			return err
		}
	}
	return sinkError(KindRecord, st.sink.EndMap())
}

func (st *state) encodeFields(fields []Field, depth int) error {
	if err := st.sink.BeginMap(len(fields)); err != nil {
		return sinkError(KindRecord, err)
	}
	for _, f := range fields {
		if err := st.writeField(f.Name, reflect.ValueOf(f.Value), depth); err != nil {
			_ = st.sink.EndMap()
			return err
		}
	}
	return sinkError(KindRecord, st.sink.EndMap())
}

func (st *state) writeField(name string, fv reflect.Value, depth int) error {
	if err := st.sink.WriteKey(name); err != nil {
		return sinkError(KindText, err)
	}
	if err := st.encode(fv, depth+1); err != nil {
		return atKey(err, name)
	}
	return nil
}

func asRecord(rv reflect.Value) (Record, bool) {
	if rv.Type().Implements(recordType) {
		return rv.Interface().(Record), true
	}
	if reflect.PointerTo(rv.Type()).Implements(recordType) {
		return addressable(rv).Addr().Interface().(Record), true
	}
	return nil, false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
