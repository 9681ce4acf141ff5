package enrich

import (
	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
)

// Partition filter defaults.
const (
	DefaultPartitionField = "partition"
	DefaultPartition      = "Basic"
)

var _ hook.IndexFilter = (*PartitionFilter)(nil)

// PartitionFilter indexes only documents from selected gazetteer partitions.
// Documents without a partition value are always indexed.
type PartitionFilter struct {
	field   string
	allowed map[string]struct{}
}

// NewPartitionFilter creates a filter on field accepting the given partitions.
// Empty field and no partitions fall back to the defaults.
func NewPartitionFilter(field string, allowed ...string) *PartitionFilter {
	if field == "" {
		field = DefaultPartitionField
	}
	if len(allowed) == 0 {
		allowed = []string{DefaultPartition}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return &PartitionFilter{field: field, allowed: set}
}

// ShouldIndex reports whether doc belongs to an allowed partition.
func (f *PartitionFilter) ShouldIndex(doc *document.Document) bool {
	v, ok := doc.Get(f.field)
	if !ok {
		return true
	}
	s, err := document.FormatScalar(v)
	if err != nil {
		return false
	}
	_, ok = f.allowed[s]
	return ok
}
