package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterProcessorMetrics_Idempotent(t *testing.T) {
	RegisterProcessorMetrics()
	RegisterProcessorMetrics()

	err := prometheus.Register(DocumentsTotal)
	var already prometheus.AlreadyRegisteredError
	if !errors.As(err, &already) {
		t.Fatalf("expected DocumentsTotal to be registered already, got %v", err)
	}
}

func TestDocumentsTotal_Labels(t *testing.T) {
	DocumentsTotal.WithLabelValues("continue").Inc()
	if v := testutil.ToFloat64(DocumentsTotal.WithLabelValues("continue")); v < 1 {
		t.Errorf("documents_total{decision=continue} = %f", v)
	}
}
