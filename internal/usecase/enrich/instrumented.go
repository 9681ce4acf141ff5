package enrich

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
	"github.com/kailas-cloud/geofield/internal/metrics"
)

var _ hook.Processor = (*InstrumentedProcessor)(nil)

// InstrumentedProcessor wraps a Processor with metrics and logging.
// Document handling is otherwise unchanged.
type InstrumentedProcessor struct {
	inner  hook.Processor
	name   string
	logger *zap.Logger
}

// NewInstrumentedProcessor wraps a processor with observability.
func NewInstrumentedProcessor(inner hook.Processor, name string, logger *zap.Logger) *InstrumentedProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedProcessor{inner: inner, name: name, logger: logger}
}

// Enrich delegates to the inner processor and records the decision.
// Appliers additionally get their outcome recorded.
func (p *InstrumentedProcessor) Enrich(doc *document.Document) hook.Decision {
	decision := hook.Continue
	if a, ok := p.inner.(Applier); ok {
		outcome := a.Apply(doc)
		metrics.EnrichmentTotal.WithLabelValues(string(outcome)).Inc()
		if outcome == OutcomeInvalidInput {
			p.logger.Warn("Unusable coordinate values, document left unchanged",
				zap.String("processor", p.name),
				zap.String("doc_id", docID(doc)),
			)
		}
	} else {
		decision = p.inner.Enrich(doc)
	}

	metrics.DocumentsTotal.WithLabelValues(decision.String()).Inc()
	p.logger.Debug("Document processed",
		zap.String("processor", p.name),
		zap.String("doc_id", docID(doc)),
		zap.Stringer("decision", decision),
	)
	return decision
}

// OnDelete records and forwards a delete event.
func (p *InstrumentedProcessor) OnDelete(e hook.DeleteEvent) {
	p.event("delete", zap.String("id", e.ID), zap.String("query", e.Query))
	p.inner.OnDelete(e)
}

// OnMergeComplete records and forwards a merge event.
func (p *InstrumentedProcessor) OnMergeComplete(e hook.MergeEvent) {
	p.event("merge", zap.Strings("indexes", e.Indexes))
	p.inner.OnMergeComplete(e)
}

// OnCommit records and forwards a commit event.
func (p *InstrumentedProcessor) OnCommit(e hook.CommitEvent) {
	p.event("commit", zap.Bool("soft", e.Soft), zap.Bool("optimize", e.Optimize))
	p.inner.OnCommit(e)
}

// OnRollback records and forwards a rollback event.
func (p *InstrumentedProcessor) OnRollback(e hook.RollbackEvent) {
	p.event("rollback")
	p.inner.OnRollback(e)
}

// OnFinish records and forwards the finish event.
func (p *InstrumentedProcessor) OnFinish(e hook.FinishEvent) {
	p.event("finish")
	p.inner.OnFinish(e)
}

func (p *InstrumentedProcessor) event(name string, fields ...zap.Field) {
	metrics.LifecycleEventsTotal.WithLabelValues(name).Inc()
	p.logger.Debug("Lifecycle event",
		append([]zap.Field{zap.String("processor", p.name), zap.String("event", name)}, fields...)...,
	)
}

// docID returns the document's id field as text, or "" when it has none.
func docID(doc *document.Document) string {
	v, ok := doc.Get("id")
	if !ok {
		return ""
	}
	s, err := document.FormatScalar(v)
	if err != nil {
		return ""
	}
	return s
}
