package hook

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/geofield/internal/domain/document"
)

// --- Mocks ---

type recordingProcessor struct {
	NopLifecycle
	name     string
	decision Decision
	log      *[]string
}

func (p *recordingProcessor) Enrich(doc *document.Document) Decision {
	*p.log = append(*p.log, p.name)
	doc.Add("seen", p.name)
	return p.decision
}

func (p *recordingProcessor) OnCommit(CommitEvent) {
	*p.log = append(*p.log, p.name+":commit")
}

// --- Tests ---

func TestDecision_String(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{Continue, "continue"},
		{Suppress, "suppress"},
		{Decision(42), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.d.String(); got != tc.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestNopLifecycle_NoSideEffects(t *testing.T) {
	var n NopLifecycle
	doc := document.New()
	doc.Set("lat", "45.0")
	doc.Set("tags", "a", "b")
	before := doc.Clone()

	n.OnDelete(DeleteEvent{ID: "x"})
	n.OnMergeComplete(MergeEvent{Indexes: []string{"a"}})
	n.OnCommit(CommitEvent{Soft: true})
	n.OnRollback(RollbackEvent{})
	n.OnFinish(FinishEvent{})

	if !reflect.DeepEqual(doc.Map(), before.Map()) {
		t.Errorf("document changed: got %v, want %v", doc.Map(), before.Map())
	}
}

func TestIndexFilterFunc(t *testing.T) {
	f := IndexFilterFunc(func(doc *document.Document) bool { return doc.Has("keep") })

	doc := document.New()
	if f.ShouldIndex(doc) {
		t.Error("expected false without keep")
	}
	doc.Set("keep", true)
	if !f.ShouldIndex(doc) {
		t.Error("expected true with keep")
	}
}

func TestChain_RunsInOrder(t *testing.T) {
	var log []string
	c := NewChain(
		&recordingProcessor{name: "a", log: &log},
		nil,
		&recordingProcessor{name: "b", log: &log},
	)
	if len(c) != 2 {
		t.Fatalf("expected nil processor to be skipped, len=%d", len(c))
	}

	doc := document.New()
	if d := c.Enrich(doc); d != Continue {
		t.Fatalf("Enrich = %v, want continue", d)
	}
	if got := len(doc.Values("seen")); got != 2 {
		t.Errorf("seen has %d values, want 2", got)
	}
	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Errorf("order = %v", log)
	}
}

func TestChain_StopsOnSuppress(t *testing.T) {
	var log []string
	c := NewChain(
		&recordingProcessor{name: "a", decision: Suppress, log: &log},
		&recordingProcessor{name: "b", log: &log},
	)

	if d := c.Enrich(document.New()); d != Suppress {
		t.Fatalf("Enrich = %v, want suppress", d)
	}
	if len(log) != 1 {
		t.Errorf("expected only first processor to run, got %v", log)
	}
}

func TestChain_FansOutLifecycle(t *testing.T) {
	var log []string
	c := NewChain(
		&recordingProcessor{name: "a", log: &log},
		&recordingProcessor{name: "b", log: &log},
	)
	c.OnCommit(CommitEvent{})
	c.OnDelete(DeleteEvent{})
	c.OnFinish(FinishEvent{})

	if len(log) != 2 || log[0] != "a:commit" || log[1] != "b:commit" {
		t.Errorf("commit fan-out = %v", log)
	}
}

func TestChain_Empty(t *testing.T) {
	if d := NewChain().Enrich(document.New()); d != Continue {
		t.Errorf("empty chain = %v, want continue", d)
	}
}
