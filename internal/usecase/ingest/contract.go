package ingest

import (
	"context"

	"github.com/kailas-cloud/geofield/internal/domain/document"
	"github.com/kailas-cloud/geofield/internal/domain/hook"
)

// CommandKind names an update command.
type CommandKind string

// Supported update commands.
const (
	CommandAdd      CommandKind = "add"
	CommandDelete   CommandKind = "delete"
	CommandMerge    CommandKind = "merge"
	CommandCommit   CommandKind = "commit"
	CommandRollback CommandKind = "rollback"
)

// Command is a single update read from a Source. Only the payload matching
// Kind is meaningful.
type Command struct {
	Kind   CommandKind
	Line   int
	Doc    *document.Document
	Delete hook.DeleteEvent
	Merge  hook.MergeEvent
	Commit hook.CommitEvent
}

// Source yields update commands. Next returns io.EOF when the stream ends.
type Source interface {
	Next(ctx context.Context) (Command, error)
}

// Sink receives the processed stream.
type Sink interface {
	Add(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, e hook.DeleteEvent) error
	MergeComplete(ctx context.Context, e hook.MergeEvent) error
	Commit(ctx context.Context, e hook.CommitEvent) error
	Rollback(ctx context.Context, e hook.RollbackEvent) error
	Flush(ctx context.Context) error
}
