package hook

import "github.com/kailas-cloud/geofield/internal/domain/document"

// Compile-time check: Chain implements Processor.
var _ Processor = (Chain)(nil)

// Chain runs processors in order as a single Processor.
type Chain []Processor

// NewChain builds a chain, skipping nil processors.
func NewChain(procs ...Processor) Chain {
	c := make(Chain, 0, len(procs))
	for _, p := range procs {
		if p != nil {
			c = append(c, p)
		}
	}
	return c
}

// Enrich runs each processor until one suppresses the document.
func (c Chain) Enrich(doc *document.Document) Decision {
	for _, p := range c {
		if p.Enrich(doc) == Suppress {
			return Suppress
		}
	}
	return Continue
}

// OnDelete forwards to every processor.
func (c Chain) OnDelete(e DeleteEvent) {
	for _, p := range c {
		p.OnDelete(e)
	}
}

// OnMergeComplete forwards to every processor.
func (c Chain) OnMergeComplete(e MergeEvent) {
	for _, p := range c {
		p.OnMergeComplete(e)
	}
}

// OnCommit forwards to every processor.
func (c Chain) OnCommit(e CommitEvent) {
	for _, p := range c {
		p.OnCommit(e)
	}
}

// OnRollback forwards to every processor.
func (c Chain) OnRollback(e RollbackEvent) {
	for _, p := range c {
		p.OnRollback(e)
	}
}

// OnFinish forwards to every processor.
func (c Chain) OnFinish(e FinishEvent) {
	for _, p := range c {
		p.OnFinish(e)
	}
}
