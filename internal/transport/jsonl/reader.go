// Package jsonl reads and writes Solr-style JSON update commands, one per line.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/kailas-cloud/geofield/internal/domain"
	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
	"github.com/kailas-cloud/geofield/internal/usecase/ingest"
)

// DefaultMaxLineBytes bounds a single input line.
const DefaultMaxLineBytes = 4 << 20 // 4MB

var _ ingest.Source = (*Reader)(nil)

type scanResult struct {
	line []byte
	err  error
}

// Reader decodes update commands from a line-delimited JSON stream.
// Scanning runs in its own goroutine so Next can return on context cancellation
// while the underlying reader is blocked.
type Reader struct {
	sc        *bufio.Scanner
	line      int
	once      sync.Once
	lines     chan scanResult
	done      chan struct{}
	closeOnce sync.Once
}

// NewReader creates a Reader. maxLineBytes <= 0 uses DefaultMaxLineBytes.
func NewReader(r io.Reader, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)
	return &Reader{sc: sc, lines: make(chan scanResult), done: make(chan struct{})}
}

// Next returns the next command, skipping blank lines. It returns io.EOF at end
// of input and ctx.Err() once ctx is done.
func (r *Reader) Next(ctx context.Context) (ingest.Command, error) {
	r.once.Do(func() { go r.scan() })

	for {
		var res scanResult
		var ok bool
		select {
		case <-ctx.Done():
			return ingest.Command{}, fmt.Errorf("read input: %w", ctx.Err())
		case res, ok = <-r.lines:
		}
		if !ok {
			return ingest.Command{}, io.EOF
		}

		r.line++
		if res.err != nil {
			return ingest.Command{}, domain.NewLineError(r.line, fmt.Errorf("scan: %w", res.err))
		}
		raw := bytes.TrimSpace(res.line)
		if len(raw) == 0 {
			continue
		}
		cmd, err := decodeCommand(raw)
		if err != nil {
			return ingest.Command{}, domain.NewLineError(r.line, err)
		}
		cmd.Line = r.line
		return cmd, nil
	}
}

// Close stops the scanning goroutine once it is unblocked. It does not close
// the underlying reader.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

func (r *Reader) scan() {
	defer close(r.lines)
	for r.sc.Scan() {
		select {
		case r.lines <- scanResult{line: bytes.Clone(r.sc.Bytes())}:
		case <-r.done:
			return
		}
	}
	if err := r.sc.Err(); err != nil {
		select {
		case r.lines <- scanResult{err: err}:
		case <-r.done:
		}
	}
}

type addPayload struct {
	Doc *document.Document `json:"doc"`
}

type deletePayload struct {
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
}

type commitPayload struct {
	SoftCommit bool `json:"softCommit,omitempty"`
}

type mergePayload struct {
	Indexes []string `json:"indexes"`
}

var commandKeys = map[string]struct{}{
	"add": {}, "delete": {}, "commit": {}, "optimize": {}, "rollback": {}, "merge": {},
}

// decodeCommand maps a single-key envelope to a command. An object holding more
// than one command key is rejected. Any other object is a bare document.
func decodeCommand(raw []byte) (ingest.Command, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ingest.Command{}, fmt.Errorf("%w: %s", domain.ErrMalformedCommand, err.Error())
	}

	var keys []string
	for key := range envelope {
		if _, ok := commandKeys[key]; ok {
			keys = append(keys, key)
		}
	}
	if len(keys) > 1 {
		slices.Sort(keys)
		return ingest.Command{}, fmt.Errorf("one command per line, got %v: %w", keys, domain.ErrMalformedCommand)
	}

	if len(envelope) == 1 {
		for key, payload := range envelope {
			if cmd, ok, err := decodeEnvelope(key, payload); ok || err != nil {
				return cmd, err
			}
		}
	}

	doc := document.New()
	if err := json.Unmarshal(raw, doc); err != nil {
		return ingest.Command{}, fmt.Errorf("%w: %s", domain.ErrMalformedCommand, err.Error())
	}
	return ingest.Command{Kind: ingest.CommandAdd, Doc: doc}, nil
}

func decodeEnvelope(key string, payload json.RawMessage) (ingest.Command, bool, error) {
	switch key {
	case "add":
		var p addPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return ingest.Command{}, true, fmt.Errorf("add: %w: %s", domain.ErrMalformedCommand, err.Error())
		}
		if p.Doc == nil {
			return ingest.Command{}, true, fmt.Errorf("add without doc: %w", domain.ErrMalformedCommand)
		}
		return ingest.Command{Kind: ingest.CommandAdd, Doc: p.Doc}, true, nil

	case "delete":
		var id string
		if err := json.Unmarshal(payload, &id); err == nil {
			return ingest.Command{Kind: ingest.CommandDelete, Delete: hook.DeleteEvent{ID: id}}, true, nil
		}
		var p deletePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return ingest.Command{}, true, fmt.Errorf("delete: %w: %s", domain.ErrMalformedCommand, err.Error())
		}
		if p.ID == "" && p.Query == "" {
			return ingest.Command{}, true, fmt.Errorf("delete needs id or query: %w", domain.ErrMalformedCommand)
		}
		return ingest.Command{
			Kind:   ingest.CommandDelete,
			Delete: hook.DeleteEvent{ID: p.ID, Query: p.Query},
		}, true, nil

	case "commit", "optimize":
		var p commitPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return ingest.Command{}, true, fmt.Errorf("%s: %w: %s", key, domain.ErrMalformedCommand, err.Error())
		}
		return ingest.Command{
			Kind:   ingest.CommandCommit,
			Commit: hook.CommitEvent{Soft: p.SoftCommit, Optimize: key == "optimize"},
		}, true, nil

	case "rollback":
		return ingest.Command{Kind: ingest.CommandRollback}, true, nil

	case "merge":
		var p mergePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return ingest.Command{}, true, fmt.Errorf("merge: %w: %s", domain.ErrMalformedCommand, err.Error())
		}
		return ingest.Command{Kind: ingest.CommandMerge, Merge: hook.MergeEvent{Indexes: p.Indexes}}, true, nil
	}
	return ingest.Command{}, false, nil
}
