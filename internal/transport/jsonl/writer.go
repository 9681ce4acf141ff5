package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
	"github.com/kailas-cloud/geofield/internal/usecase/ingest"
)

var _ ingest.Sink = (*Writer)(nil)

// Writer re-emits the processed stream as update commands, one per line.
type Writer struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewWriter creates a Writer. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

// Add writes {"add":{"doc":...}}.
func (w *Writer) Add(_ context.Context, doc *document.Document) error {
	return w.write(struct {
		Add addPayload `json:"add"`
	}{addPayload{Doc: doc}})
}

// Delete writes {"delete":{"id":...}} or {"delete":{"query":...}}.
func (w *Writer) Delete(_ context.Context, e hook.DeleteEvent) error {
	return w.write(struct {
		Delete deletePayload `json:"delete"`
	}{deletePayload{ID: e.ID, Query: e.Query}})
}

// MergeComplete writes {"merge":{"indexes":[...]}}.
func (w *Writer) MergeComplete(_ context.Context, e hook.MergeEvent) error {
	return w.write(struct {
		Merge mergePayload `json:"merge"`
	}{mergePayload{Indexes: e.Indexes}})
}

// Commit writes {"commit":{...}}, or {"optimize":{...}} for optimizing commits.
func (w *Writer) Commit(_ context.Context, e hook.CommitEvent) error {
	p := commitPayload{SoftCommit: e.Soft}
	if e.Optimize {
		return w.write(struct {
			Optimize commitPayload `json:"optimize"`
		}{p})
	}
	return w.write(struct {
		Commit commitPayload `json:"commit"`
	}{p})
}

// Rollback writes {"rollback":{}}.
func (w *Writer) Rollback(_ context.Context, _ hook.RollbackEvent) error {
	return w.write(struct {
		Rollback struct{} `json:"rollback"`
	}{})
}

// Flush writes buffered output.
func (w *Writer) Flush(_ context.Context) error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func (w *Writer) write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}
