// Package geofield derives a combined "lat,lon" field on documents flowing
// through an indexing pipeline, and exposes the hook contract for Go hosts.
package geofield

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
	logpkg "github.com/kailas-cloud/geofield/internal/logger"
	"github.com/kailas-cloud/geofield/internal/transport/jsonl"
	"github.com/kailas-cloud/geofield/internal/usecase/enrich"
	"github.com/kailas-cloud/geofield/internal/usecase/ingest"
)

// Document is a mutable field map handed to processors.
type Document = document.Document

// Decision tells the host whether to keep processing a document.
type Decision = hook.Decision

// Decisions.
const (
	Continue = hook.Continue
	Suppress = hook.Suppress
)

// Processor contract and lifecycle events.
type (
	Processor       = hook.Processor
	Lifecycle       = hook.Lifecycle
	IndexFilter     = hook.IndexFilter
	IndexFilterFunc = hook.IndexFilterFunc
	DeleteEvent     = hook.DeleteEvent
	MergeEvent      = hook.MergeEvent
	CommitEvent     = hook.CommitEvent
	RollbackEvent   = hook.RollbackEvent
	FinishEvent     = hook.FinishEvent
	NopLifecycle    = hook.NopLifecycle
)

// Stats counts what Process did.
type Stats = ingest.Stats

// NewDocument creates an empty document.
func NewDocument() *Document { return document.New() }

// DocumentFromMap builds a document from a plain map. Slice values other than
// []byte become multi-valued fields.
func DocumentFromMap(m map[string]any) *Document { return document.FromMap(m) }

// NewEnricher creates the lat/lon enricher. Without options it reads "lat" and
// "lon" and writes "geo" as "<lat>,<lon>".
func NewEnricher(opts ...Option) Processor {
	cfg := &enricherConfig{}
	for _, o := range opts {
		o(cfg)
	}

	e := enrich.New().
		WithFields(cfg.latField, cfg.lonField, cfg.targetField).
		WithSeparator(cfg.separator).
		WithMultiValuePolicy(enrich.MultiValuePolicy(cfg.multiValue)).
		WithStrictCoordinates(cfg.strict)

	if cfg.logger != nil {
		return enrich.NewInstrumentedProcessor(e, "field_enricher", cfg.logger)
	}
	return e
}

// NewPartitionFilter indexes only documents whose partition field holds one of
// allowed, or has no value. Defaults: field "partition", allowed "Basic".
func NewPartitionFilter(field string, allowed ...string) IndexFilter {
	return enrich.NewPartitionFilter(field, allowed...)
}

// NewChain runs processors in order as one. Enrich stops at the first Suppress.
func NewChain(procs ...Processor) Processor {
	return hook.NewChain(procs...)
}

// Process reads JSON-lines update commands from r, runs them through proc
// (after filter, if non-nil) and writes the accepted stream to w.
// It returns once ctx is done, even while r is blocked.
func Process(ctx context.Context, r io.Reader, w io.Writer, proc Processor, filter IndexFilter) (Stats, error) {
	svc := ingest.New(proc, jsonl.NewWriter(w))
	if filter != nil {
		svc.WithFilter(filter)
	}
	src := jsonl.NewReader(r, 0)
	defer func() { _ = src.Close() }()

	st, err := svc.Run(ctx, src)
	if err != nil {
		return st, fmt.Errorf("geofield: %w", err)
	}
	return st, nil
}

// WithLogger attaches a logger to the context used by Process.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return logpkg.ContextWithLogger(ctx, logger)
}
