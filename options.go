package geofield

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofield/internal/usecase/enrich"
)

// Option configures NewEnricher.
type Option func(*enricherConfig)

type enricherConfig struct {
	latField    string
	lonField    string
	targetField string
	separator   string
	multiValue  string
	strict      bool
	logger      *zap.Logger
}

// WithFields sets the source and target field names. Empty names keep the defaults.
func WithFields(lat, lon, target string) Option {
	return func(c *enricherConfig) {
		c.latField, c.lonField, c.targetField = lat, lon, target
	}
}

// WithSeparator sets the text between the two values. Empty keeps the default ",".
func WithSeparator(sep string) Option {
	return func(c *enricherConfig) {
		c.separator = sep
	}
}

// RejectMultiValued treats a coordinate field with more than one value as
// unusable. By default the first value is used.
func RejectMultiValued() Option {
	return func(c *enricherConfig) {
		c.multiValue = string(enrich.MultiValueReject)
	}
}

// StrictCoordinates requires both values to be decimal degrees in range.
func StrictCoordinates() Option {
	return func(c *enricherConfig) {
		c.strict = true
	}
}

// WithProcessorLogger wraps the enricher with metrics and logging.
func WithProcessorLogger(logger *zap.Logger) Option {
	return func(c *enricherConfig) {
		c.logger = logger
	}
}
