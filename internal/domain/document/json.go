package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the document as an object in field order.
// Single-valued fields encode as the bare value, multi-valued fields as arrays.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		var v any = d.fields[name]
		if vs := d.fields[name]; len(vs) == 1 {
			v = vs[0]
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping field order.
// Numbers decode as json.Number so their original text is preserved.
// Top-level arrays become multi-valued fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be a JSON object")
	}

	*d = Document{fields: make(map[string][]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read field name: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("read field %q: %w", name, err)
		}
		if vs, ok := v.([]any); ok {
			d.Set(name, vs...)
			continue
		}
		d.Set(name, v)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read document end: %w", err)
	}
	return nil
}
