package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofield/internal/config"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
	logpkg "github.com/kailas-cloud/geofield/internal/logger"
	"github.com/kailas-cloud/geofield/internal/metrics"
	chiTransport "github.com/kailas-cloud/geofield/internal/transport/chi"
	"github.com/kailas-cloud/geofield/internal/transport/jsonl"
	"github.com/kailas-cloud/geofield/internal/usecase/enrich"
	healthuc "github.com/kailas-cloud/geofield/internal/usecase/health"
	"github.com/kailas-cloud/geofield/internal/usecase/ingest"
	"github.com/kailas-cloud/geofield/internal/version"
)

type runOptions struct {
	configPath  string
	env         string
	input       string
	output      string
	metricsAddr string
	logLevel    string
}

func runIngest(ctx context.Context, opts runOptions, stdin io.Reader, stdout io.Writer) (err error) {
	env := opts.env
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Resolve(opts.configPath, env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	runID := uuid.NewString()
	ctx = logpkg.ContextWithRun(ctx, logger, runID)
	log := logpkg.FromContext(ctx)

	log.Info("Starting geofield run",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("input", opts.input),
		zap.String("output", opts.output),
	)

	metrics.RegisterProcessorMetrics()

	proc, filter := buildPipeline(cfg, log)

	in, closeIn, err := openInput(opts.input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
		}
	}()

	svc := ingest.New(proc, jsonl.NewWriter(out))
	if filter != nil {
		svc.WithFilter(filter)
	}

	if cfg.Metrics.Addr != "" {
		health := healthuc.New(map[string]healthuc.Checker{"ingest": svc})
		stopOps := startOpsServer(cfg.Metrics, health, log)
		defer stopOps()
	}

	src := jsonl.NewReader(in, cfg.Input.MaxLineBytes)
	defer func() { _ = src.Close() }()

	st, err := svc.Run(ctx, src)
	if err != nil {
		log.Error("Ingest run failed", zap.Error(err), zap.Int("added", st.Added))
		return fmt.Errorf("run %s: %w", runID, err)
	}
	return nil
}

// buildPipeline assembles the processor from config: FieldEnricher -> Instrumented.
// The filter is nil unless enabled.
func buildPipeline(cfg config.Config, logger *zap.Logger) (hook.Processor, hook.IndexFilter) {
	enricher := enrich.New().
		WithFields(cfg.Enrich.LatField, cfg.Enrich.LonField, cfg.Enrich.TargetField).
		WithSeparator(cfg.Enrich.Separator).
		WithMultiValuePolicy(enrich.MultiValuePolicy(cfg.Enrich.MultiValue)).
		WithStrictCoordinates(cfg.Enrich.StrictCoordinates)

	proc := enrich.NewInstrumentedProcessor(enricher, "field_enricher", logger)

	if !cfg.Filter.Enabled {
		return proc, nil
	}
	return proc, enrich.NewPartitionFilter(cfg.Filter.Field, cfg.Filter.Allowed...)
}

// startOpsServer serves /health and /metrics until the returned stop func is called.
func startOpsServer(cfg config.MetricsConfig, health chiTransport.HealthReporter, logger *zap.Logger) func() {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           chiTransport.NewServer(health, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Starting ops server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Ops server error", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during ops server shutdown", zap.Error(err))
		}
	}
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
