package health

import (
	"context"
	"maps"
	"slices"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	checks map[string]Checker
}

// New creates a Service over named checkers. Nil checkers are ignored.
func New(checks map[string]Checker) *Service {
	c := make(map[string]Checker, len(checks))
	for name, ch := range checks {
		if ch != nil {
			c[name] = ch
		}
	}
	return &Service{checks: c}
}

// Check runs every checker. One failure degrades the report; all failing makes it unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	results := make(map[string]CheckResult, len(s.checks))
	failed := 0
	for _, name := range slices.Sorted(maps.Keys(s.checks)) {
		if err := s.checks[name].HealthCheck(ctx); err != nil {
			results[name] = CheckError
			failed++
			continue
		}
		results[name] = CheckOK
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(results):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: results}
}
