package ucosm_internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchedFrameLenEmptyClear(t *testing.T) {
	p := NewPeriodic()
	if !p.Empty() {
		t.Fatal("a fresh scheduler should be empty")
	}

	p.AddTask("a", NewTaskFunc("a", func() {}), 10, 0)
	p.AddTask("b", NewTaskFunc("b", func() {}), 10, 0)
	if p.Len() != 2 {
		t.Fatalf("Len: want 2, got %d", p.Len())
	}

	p.Clear()
	if !p.Empty() {
		t.Fatal("scheduler should be empty after Clear")
	}
}

func TestSchedFrameThisTask(t *testing.T) {
	p := NewPeriodic()
	if p.ThisTask().Linked() {
		t.Fatal("ThisTask should be unlinked outside of Run")
	}

	var sawSelf bool
	var h TaskHandle
	task := NewTaskFunc("self", func() {
		sawSelf = p.ThisTask().Linked() && p.ThisTask().Name() == "self"
		p.RemoveTask(h)
	})
	h = p.AddTask("self", task, 1, 0)

	p.Run(1)
	if !sawSelf {
		t.Fatal("task should observe itself as ThisTask while running")
	}
	if h.Linked() {
		t.Fatal("task removed itself during Run, should be unlinked afterward")
	}
	if p.ThisTask().Linked() {
		t.Fatal("ThisTask should be unlinked again once Run returns")
	}
}

func TestSchedFrameSnapshot(t *testing.T) {
	fs := NewFairShare()
	fs.AddTask("a", NewTaskFunc("a", func() {}), 1)
	fs.AddTask("b", NewTaskFunc("b", func() {}), 5)

	snaps := fs.Snapshot()
	if len(snaps) != 2 {
		t.Fatalf("Snapshot: want 2 entries, got %d", len(snaps))
	}
	names := map[string]bool{}
	for _, s := range snaps {
		names[s.Name] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("Snapshot names: want a,b, got %v", snaps)
	}
}

func TestSchedFrameSnapshotIsIndependentCopy(t *testing.T) {
	p := NewPeriodic()
	p.AddTask("a", NewTaskFunc("a", func() {}), 10, 0)

	want := []TaskSnapshot{{Name: "a", Rank: 10, Period: 10}}
	got := p.Snapshot()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Snapshot mismatch (-want +got):\n%s", diff)
	}

	// Mutating the live scheduler afterward must not retroactively
	// change the snapshot already taken.
	p.AddTask("b", NewTaskFunc("b", func() {}), 20, 0)
	if len(got) != 1 {
		t.Fatalf("previously taken snapshot should be unaffected by later AddTask, len=%d", len(got))
	}
}
