package enrich

import (
	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/geo"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
)

// Default field names and separator.
const (
	DefaultLatField    = "lat"
	DefaultLonField    = "lon"
	DefaultTargetField = "geo"
	DefaultSeparator   = ","
)

// MultiValuePolicy controls how a multi-valued coordinate field is read.
type MultiValuePolicy string

const (
	// MultiValueFirst uses the first value and ignores the rest.
	MultiValueFirst MultiValuePolicy = "first"
	// MultiValueReject treats more than one value as invalid input.
	MultiValueReject MultiValuePolicy = "reject"
)

// Outcome describes what Apply did to a document.
type Outcome string

const (
	// OutcomeEnriched means the target field was written.
	OutcomeEnriched Outcome = "enriched"
	// OutcomeMissingInput means a coordinate field was absent; nothing changed.
	OutcomeMissingInput Outcome = "missing_input"
	// OutcomeInvalidInput means a coordinate value was unusable; nothing changed.
	OutcomeInvalidInput Outcome = "invalid_input"
)

// Compile-time checks.
var (
	_ hook.Processor = (*FieldEnricher)(nil)
	_ Applier        = (*FieldEnricher)(nil)
)

// FieldEnricher writes "<lat><sep><lon>" into a target field when both coordinate
// fields are present. It keeps no state between documents and is safe for concurrent use.
type FieldEnricher struct {
	hook.NopLifecycle
	latField    string
	lonField    string
	targetField string
	separator   string
	multiValue  MultiValuePolicy
	strict      bool
}

// New creates an enricher reading lat/lon and writing geo.
func New() *FieldEnricher {
	return &FieldEnricher{
		latField:    DefaultLatField,
		lonField:    DefaultLonField,
		targetField: DefaultTargetField,
		separator:   DefaultSeparator,
		multiValue:  MultiValueFirst,
	}
}

// WithFields overrides the field names. Empty names keep the current value.
func (e *FieldEnricher) WithFields(lat, lon, target string) *FieldEnricher {
	if lat != "" {
		e.latField = lat
	}
	if lon != "" {
		e.lonField = lon
	}
	if target != "" {
		e.targetField = target
	}
	return e
}

// WithSeparator overrides the text placed between the two values.
// An empty separator keeps the current one (default ",").
func (e *FieldEnricher) WithSeparator(sep string) *FieldEnricher {
	if sep != "" {
		e.separator = sep
	}
	return e
}

// WithMultiValuePolicy sets how multi-valued coordinate fields are read.
func (e *FieldEnricher) WithMultiValuePolicy(p MultiValuePolicy) *FieldEnricher {
	if p != "" {
		e.multiValue = p
	}
	return e
}

// WithStrictCoordinates requires both values to be decimal degrees in range.
// The written value is still the original text.
func (e *FieldEnricher) WithStrictCoordinates(strict bool) *FieldEnricher {
	e.strict = strict
	return e
}

// TargetField returns the name of the derived field.
func (e *FieldEnricher) TargetField() string { return e.targetField }

// Enrich applies the enrichment and always lets the document through.
func (e *FieldEnricher) Enrich(doc *document.Document) hook.Decision {
	e.Apply(doc)
	return hook.Continue
}

// Apply sets the target field from the two coordinate fields.
// The document is untouched unless the outcome is OutcomeEnriched.
func (e *FieldEnricher) Apply(doc *document.Document) Outcome {
	latVal, hasLat := doc.Get(e.latField)
	lonVal, hasLon := doc.Get(e.lonField)
	if !hasLat || !hasLon {
		return OutcomeMissingInput
	}

	lat, ok := e.text(doc, e.latField, latVal)
	if !ok {
		return OutcomeInvalidInput
	}
	lon, ok := e.text(doc, e.lonField, lonVal)
	if !ok {
		return OutcomeInvalidInput
	}

	if e.strict {
		if _, err := geo.ParsePoint(lat, lon); err != nil {
			return OutcomeInvalidInput
		}
	}

	doc.Set(e.targetField, lat+e.separator+lon)
	return OutcomeEnriched
}

func (e *FieldEnricher) text(doc *document.Document, name string, first any) (string, bool) {
	if e.multiValue == MultiValueReject && len(doc.Values(name)) > 1 {
		return "", false
	}
	s, err := document.FormatScalar(first)
	if err != nil {
		return "", false
	}
	return s, true
}
