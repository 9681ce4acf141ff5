package enrich

import "github.com/kailas-cloud/geofield/internal/domain/document"

// Applier is an enrichment step that reports what it did to a document.
// Appliers never suppress: their Enrich is Apply followed by hook.Continue.
type Applier interface {
	Apply(doc *document.Document) Outcome
}
