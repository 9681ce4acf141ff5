package document

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestGet_FirstValue(t *testing.T) {
	d := New()
	d.Set("lat", "45.0", "46.0")

	v, ok := d.Get("lat")
	if !ok {
		t.Fatal("expected lat to be present")
	}
	if v != "45.0" {
		t.Errorf("Get(lat) = %v, want 45.0", v)
	}
}

func TestGet_Absent(t *testing.T) {
	d := New()
	d.Set("empty")
	d.Set("null", nil)

	for _, name := range []string{"missing", "empty", "null"} {
		if _, ok := d.Get(name); ok {
			t.Errorf("Get(%q) reported present", name)
		}
	}
	if !d.Has("empty") {
		t.Error("Has(empty) = false, field exists without values")
	}
}

func TestZeroValue(t *testing.T) {
	var d Document
	if _, ok := d.Get("x"); ok {
		t.Fatal("zero document should have no fields")
	}
	d.Add("x", 1)
	d.Remove("nope")
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestSet_OverwritesKeepsOrder(t *testing.T) {
	d := New()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("a", 3)

	if got := d.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
	if v, _ := d.Get("a"); v != 3 {
		t.Errorf("Get(a) = %v, want 3", v)
	}
}

func TestAdd_Appends(t *testing.T) {
	d := New()
	d.Add("tag", "x")
	d.Add("tag", "y")

	if got := d.Values("tag"); !reflect.DeepEqual(got, []any{"x", "y"}) {
		t.Errorf("Values(tag) = %v", got)
	}
}

func TestRemove(t *testing.T) {
	d := New()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("c", 3)
	d.Remove("b")

	if d.Has("b") {
		t.Error("b still present")
	}
	if got := d.Names(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestClone_Independent(t *testing.T) {
	d := New()
	d.Set("lat", "1")
	c := d.Clone()
	c.Set("lat", "2")
	c.Set("geo", "x")

	if v, _ := d.Get("lat"); v != "1" {
		t.Errorf("original lat = %v", v)
	}
	if d.Has("geo") {
		t.Error("original gained geo")
	}
}

func TestFromMap_SortedAndMultiValued(t *testing.T) {
	d := FromMap(map[string]any{
		"lon":  "2",
		"lat":  "1",
		"tags": []any{"a", "b"},
	})

	if got := d.Names(); !reflect.DeepEqual(got, []string{"lat", "lon", "tags"}) {
		t.Errorf("Names() = %v", got)
	}
	if got := len(d.Values("tags")); got != 2 {
		t.Errorf("tags has %d values, want 2", got)
	}
}

func TestFromMap_TypedSlices(t *testing.T) {
	d := FromMap(map[string]any{
		"lat":  []string{"1", "3"},
		"lon":  []float64{2},
		"raw":  []byte("xy"),
		"none": []string{},
	})

	if got := d.Values("lat"); !reflect.DeepEqual(got, []any{"1", "3"}) {
		t.Errorf("lat = %#v", got)
	}
	if v, ok := d.Get("lon"); !ok || v != 2.0 {
		t.Errorf("lon = %#v", v)
	}
	if got := len(d.Values("raw")); got != 1 {
		t.Errorf("[]byte must stay a single value, got %d values", got)
	}
	if !d.Has("none") || d.Values("none") == nil {
		t.Error("empty slice must be kept as an empty field")
	}
	if _, ok := d.Get("none"); ok {
		t.Error("empty field must read as absent")
	}
}

func TestEmptyField_EncodesAsArray(t *testing.T) {
	d := New()
	d.Set("tags")
	d.Set("id", "1")

	for name, doc := range map[string]*Document{"original": d, "clone": d.Clone()} {
		out, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		if string(out) != `{"tags":[],"id":"1"}` {
			t.Errorf("%s: got %s", name, out)
		}
	}
	if got, ok := d.Map()["tags"].([]any); !ok || got == nil {
		t.Errorf("Map() tags = %#v, want empty []any", d.Map()["tags"])
	}
}

func TestMap(t *testing.T) {
	d := New()
	d.Set("one", "x")
	d.Set("many", "a", "b")

	m := d.Map()
	if m["one"] != "x" {
		t.Errorf("one = %v", m["one"])
	}
	if !reflect.DeepEqual(m["many"], []any{"a", "b"}) {
		t.Errorf("many = %v", m["many"])
	}
}

func TestJSON_RoundTripKeepsOrderAndNumberText(t *testing.T) {
	in := `{"name":"Paris","lon":2.3500,"lat":48.8566,"alt":["a","b"],"tags":[]}`

	var d Document
	if err := json.Unmarshal([]byte(in), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := d.Names(); !reflect.DeepEqual(got, []string{"name", "lon", "lat", "alt", "tags"}) {
		t.Errorf("Names() = %v", got)
	}
	lon, _ := d.Get("lon")
	if n, ok := lon.(json.Number); !ok || n.String() != "2.3500" {
		t.Errorf("lon = %#v, want json.Number 2.3500", lon)
	}

	out, err := json.Marshal(&d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip:\ngot:  %s\nwant: %s", out, in)
	}
}

func TestUnmarshalJSON_NotObject(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte(`[1,2]`), &d); err == nil {
		t.Fatal("expected error for array input")
	}
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"45.0", "45.0"},
		{json.Number("-122.0000"), "-122.0000"},
		{int(7), "7"},
		{int64(-3), "-3"},
		{uint16(9), "9"},
		{45.5, "45.5"},
		{float64(45), "45"},
		{float32(1.25), "1.25"},
		{true, "true"},
	}
	for _, tc := range tests {
		got, err := FormatScalar(tc.in)
		if err != nil {
			t.Errorf("FormatScalar(%#v): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FormatScalar(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatScalar_NonScalar(t *testing.T) {
	for _, v := range []any{nil, map[string]any{"a": 1}, []any{1}} {
		if _, err := FormatScalar(v); !errors.Is(err, ErrNotScalar) {
			t.Errorf("FormatScalar(%#v) err = %v, want ErrNotScalar", v, err)
		}
	}
}
