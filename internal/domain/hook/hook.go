// Package hook defines the contract between an indexing host and the
// processors it calls while documents flow into an index.
package hook

import "github.com/kailas-cloud/geofield/internal/domain/document"

// Decision tells the host what to do with a document after Enrich.
type Decision int

const (
	// Continue lets the document proceed to indexing.
	Continue Decision = iota
	// Suppress drops the document; the host must not index it.
	Suppress
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Suppress:
		return "suppress"
	default:
		return "unknown"
	}
}

// DeleteEvent is raised when the host deletes by ID or by query.
type DeleteEvent struct {
	ID    string
	Query string
}

// MergeEvent is raised after the host merges external indexes into its own.
type MergeEvent struct {
	Indexes []string
}

// CommitEvent is raised on a hard or soft commit. Optimize marks a commit
// that also compacts the index.
type CommitEvent struct {
	Soft     bool
	Optimize bool
}

// RollbackEvent is raised when the host discards uncommitted changes.
type RollbackEvent struct{}

// FinishEvent is raised once when the host is done with the processor.
type FinishEvent struct{}

// Lifecycle is the set of non-document callbacks a processor must accept.
type Lifecycle interface {
	OnDelete(e DeleteEvent)
	OnMergeComplete(e MergeEvent)
	OnCommit(e CommitEvent)
	OnRollback(e RollbackEvent)
	OnFinish(e FinishEvent)
}

// Processor is invoked once per added document and at every lifecycle point.
// Enrich may mutate doc in place. Implementations must not retain doc.
type Processor interface {
	Lifecycle
	Enrich(doc *document.Document) Decision
}

// IndexFilter is consulted by the host before Enrich.
// Returning false suppresses the document without calling Enrich.
type IndexFilter interface {
	ShouldIndex(doc *document.Document) bool
}

// IndexFilterFunc adapts a function to IndexFilter.
type IndexFilterFunc func(doc *document.Document) bool

// ShouldIndex calls f(doc).
func (f IndexFilterFunc) ShouldIndex(doc *document.Document) bool { return f(doc) }

// NopLifecycle implements Lifecycle with no-ops. Embed it in processors that
// only care about documents.
type NopLifecycle struct{}

// OnDelete does nothing.
func (NopLifecycle) OnDelete(DeleteEvent) {}

// OnMergeComplete does nothing.
func (NopLifecycle) OnMergeComplete(MergeEvent) {}

// OnCommit does nothing.
func (NopLifecycle) OnCommit(CommitEvent) {}

// OnRollback does nothing.
func (NopLifecycle) OnRollback(RollbackEvent) {}

// OnFinish does nothing.
func (NopLifecycle) OnFinish(FinishEvent) {}
