package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geofield/internal/domain"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
	logpkg "github.com/kailas-cloud/geofield/internal/logger"
	"github.com/kailas-cloud/geofield/internal/metrics"
)

// Stats counts what a run did.
type Stats struct {
	Added      int
	Filtered   int
	Suppressed int
	Deleted    int
	Merges     int
	Commits    int
	Rollbacks  int
	Duration   time.Duration
}

// Service plays the host side of the processor contract: it reads commands,
// consults the index filter, calls the processor and forwards what survives.
type Service struct {
	proc   hook.Processor
	filter hook.IndexFilter
	sink   Sink

	mu      sync.Mutex
	lastErr error
}

// New creates an ingest service.
func New(proc hook.Processor, sink Sink) *Service {
	return &Service{proc: proc, sink: sink}
}

// WithFilter sets the filter consulted before the processor sees a document.
func (s *Service) WithFilter(f hook.IndexFilter) *Service {
	s.filter = f
	return s
}

// Run drains src. The processor always receives OnFinish, even on error.
// Errors from a command are wrapped in a domain.LineError.
func (s *Service) Run(ctx context.Context, src Source) (st Stats, err error) {
	log := logpkg.FromContext(ctx)
	start := time.Now()

	defer func() {
		s.setErr(err)
		s.proc.OnFinish(hook.FinishEvent{})
		st.Duration = time.Since(start)
		metrics.IngestRunDuration.Observe(st.Duration.Seconds())
	}()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return st, fmt.Errorf("ingest canceled: %w", ctxErr)
		}

		cmd, nextErr := src.Next(ctx)
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return st, fmt.Errorf("read command: %w", nextErr)
		}

		metrics.IngestCommandsTotal.WithLabelValues(string(cmd.Kind)).Inc()
		if handleErr := s.handle(ctx, cmd, &st); handleErr != nil {
			return st, domain.NewLineError(cmd.Line, handleErr)
		}
	}

	if flushErr := s.sink.Flush(ctx); flushErr != nil {
		return st, fmt.Errorf("flush sink: %w", flushErr)
	}

	log.Info("Ingest run completed",
		zap.Int("added", st.Added),
		zap.Int("filtered", st.Filtered),
		zap.Int("suppressed", st.Suppressed),
		zap.Int("deleted", st.Deleted),
		zap.Int("commits", st.Commits),
		zap.Int("rollbacks", st.Rollbacks),
		zap.Int("merges", st.Merges),
		zap.Duration("elapsed", time.Since(start)),
	)
	return st, nil
}

// HealthCheck reports the error of the last run, nil while it is running or succeeded.
func (s *Service) HealthCheck(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Service) handle(ctx context.Context, cmd Command, st *Stats) error {
	switch cmd.Kind {
	case CommandAdd:
		return s.add(ctx, cmd, st)
	case CommandDelete:
		s.proc.OnDelete(cmd.Delete)
		if err := s.sink.Delete(ctx, cmd.Delete); err != nil {
			return fmt.Errorf("sink delete: %w", err)
		}
		st.Deleted++
	case CommandMerge:
		s.proc.OnMergeComplete(cmd.Merge)
		if err := s.sink.MergeComplete(ctx, cmd.Merge); err != nil {
			return fmt.Errorf("sink merge: %w", err)
		}
		st.Merges++
	case CommandCommit:
		s.proc.OnCommit(cmd.Commit)
		if err := s.sink.Commit(ctx, cmd.Commit); err != nil {
			return fmt.Errorf("sink commit: %w", err)
		}
		st.Commits++
	case CommandRollback:
		s.proc.OnRollback(hook.RollbackEvent{})
		if err := s.sink.Rollback(ctx, hook.RollbackEvent{}); err != nil {
			return fmt.Errorf("sink rollback: %w", err)
		}
		st.Rollbacks++
	default:
		return fmt.Errorf("unknown command %q: %w", cmd.Kind, domain.ErrMalformedCommand)
	}
	return nil
}

func (s *Service) add(ctx context.Context, cmd Command, st *Stats) error {
	if cmd.Doc == nil {
		return fmt.Errorf("add without document: %w", domain.ErrMalformedCommand)
	}

	if s.filter != nil && !s.filter.ShouldIndex(cmd.Doc) {
		metrics.DocumentsTotal.WithLabelValues("filtered").Inc()
		logpkg.FromContext(ctx).Debug("Document filtered before enrichment", zap.Int("line", cmd.Line))
		st.Filtered++
		return nil
	}

	if s.proc.Enrich(cmd.Doc) == hook.Suppress {
		st.Suppressed++
		return nil
	}

	if err := s.sink.Add(ctx, cmd.Doc); err != nil {
		return fmt.Errorf("sink add: %w", err)
	}
	st.Added++
	return nil
}
