package document

import (
	"maps"
	"reflect"
	"slices"
)

// Document is a mutable, ordered field map handed to processors during ingestion.
// Each field holds one or more values. The zero value is ready to use.
type Document struct {
	fields map[string][]any
	order  []string
}

// New creates an empty Document.
func New() *Document {
	return &Document{fields: make(map[string][]any)}
}

// FromMap builds a Document from a plain map. Any slice value ([]any, []string,
// []float64, ...) becomes a multi-valued field, except []byte. Anything else is a
// single value. Fields are ordered by name.
func FromMap(m map[string]any) *Document {
	d := New()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		d.Set(k, expand(m[k])...)
	}
	return d
}

func expand(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case []byte:
		return []any{x}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Get returns the first value of a field.
// A missing field, an empty field or a null first value are reported as absent.
func (d *Document) Get(name string) (any, bool) {
	vs := d.fields[name]
	if len(vs) == 0 || vs[0] == nil {
		return nil, false
	}
	return vs[0], true
}

// Values returns all values of a field (nil if missing). The slice is shared.
func (d *Document) Values(name string) []any {
	return d.fields[name]
}

// Has reports whether the field exists, regardless of its values.
func (d *Document) Has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// Set replaces all values of a field. New fields are appended to the field order.
func (d *Document) Set(name string, values ...any) {
	if d.fields == nil {
		d.fields = make(map[string][]any)
	}
	if _, ok := d.fields[name]; !ok {
		d.order = append(d.order, name)
	}
	d.fields[name] = cloneValues(values)
}

// Add appends a value to a field, creating it if needed.
func (d *Document) Add(name string, value any) {
	if _, ok := d.fields[name]; !ok {
		d.Set(name, value)
		return
	}
	d.fields[name] = append(d.fields[name], value)
}

// Remove deletes a field. Missing fields are ignored.
func (d *Document) Remove(name string) {
	if _, ok := d.fields[name]; !ok {
		return
	}
	delete(d.fields, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Names returns field names in insertion order.
func (d *Document) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of fields.
func (d *Document) Len() int { return len(d.order) }

// Clone returns a copy whose field map and value slices are independent of d.
// Non-scalar values themselves are shared.
func (d *Document) Clone() *Document {
	c := &Document{
		fields: make(map[string][]any, len(d.fields)),
		order:  make([]string, len(d.order)),
	}
	copy(c.order, d.order)
	for k, vs := range d.fields {
		c.fields[k] = cloneValues(vs)
	}
	return c
}

// Map returns a plain map view: single-valued fields unwrap to the value,
// multi-valued fields become []any.
func (d *Document) Map() map[string]any {
	m := make(map[string]any, len(d.fields))
	for _, name := range d.order {
		vs := d.fields[name]
		if len(vs) == 1 {
			m[name] = vs[0]
			continue
		}
		m[name] = cloneValues(vs)
	}
	return m
}

// cloneValues copies vs. An empty field stays an empty, non-nil slice so it
// encodes as [] rather than null.
func cloneValues(vs []any) []any {
	out := make([]any, len(vs))
	copy(out, vs)
	return out
}
