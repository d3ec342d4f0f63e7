package ucosm_internal

import "testing"

type countingTask struct {
	TaskBase
	runs []uint32
	tick *uint32
}

func (c *countingTask) Run() {
	c.runs = append(c.runs, *c.tick)
}

func TestPeriodicBasicSchedule(t *testing.T) {
	p := NewPeriodic()
	var tick uint32

	a := &countingTask{tick: &tick}
	b := &countingTask{tick: &tick}
	p.AddTask("a", a, 3, 0)
	p.AddTask("b", b, 5, 0)

	// Run executes at most one due task per call (spec.md §4.E), so a
	// tick where both a and b are due (e.g. 15) needs a second call to
	// give the one the cursor didn't land on its turn.
	for tick = 1; tick <= 15; tick++ {
		p.Run(tick)
		p.Run(tick)
	}

	wantA := []uint32{3, 6, 9, 12, 15}
	wantB := []uint32{5, 10, 15}
	if !equalUint32(a.runs, wantA) {
		t.Fatalf("a.runs: want %v, got %v", wantA, a.runs)
	}
	if !equalUint32(b.runs, wantB) {
		t.Fatalf("b.runs: want %v, got %v", wantB, b.runs)
	}
}

func TestPeriodicOneShot(t *testing.T) {
	p := NewPeriodic()
	var tick uint32
	a := &countingTask{tick: &tick}
	h := p.AddTask("a", a, 0, 0)

	for tick = 1; tick <= 3; tick++ {
		p.Run(tick)
	}
	if len(a.runs) != 1 {
		t.Fatalf("one-shot task ran %d times, want 1", len(a.runs))
	}
	if h.Linked() {
		t.Fatal("one-shot task handle should be unlinked after running")
	}
}

func TestPeriodicRoundRobinOnTie(t *testing.T) {
	p := NewPeriodic()
	var tick uint32
	var order []string

	mk := func(name string) Task {
		return NewTaskFunc(name, func() { order = append(order, name) })
	}
	p.AddTask("a", mk("a"), 2, 0)
	p.AddTask("b", mk("b"), 2, 0)
	p.AddTask("c", mk("c"), 2, 0)

	// Run executes at most one due task per call (spec.md §4.E), so all
	// three simultaneously-due tasks need three calls, round-robin via
	// the cursor, to each get a turn at the same tick.
	tick = 2
	p.Run(tick)
	p.Run(tick)
	p.Run(tick)
	if len(order) != 3 {
		t.Fatalf("want all 3 tasks to run once, got %v", order)
	}

	order = nil
	tick = 4
	p.Run(tick)
	p.Run(tick)
	p.Run(tick)
	if len(order) != 3 {
		t.Fatalf("want all 3 tasks to run again, got %v", order)
	}
}

func TestPeriodicRemoveTask(t *testing.T) {
	p := NewPeriodic()
	var tick uint32
	a := &countingTask{tick: &tick}
	h := p.AddTask("a", a, 1, 0)

	tick = 1
	p.Run(tick)
	if len(a.runs) != 1 {
		t.Fatalf("want 1 run before removal, got %d", len(a.runs))
	}

	if !p.RemoveTask(h) {
		t.Fatal("RemoveTask should succeed while linked")
	}
	if p.RemoveTask(h) {
		t.Fatal("second RemoveTask should be a no-op")
	}

	for tick = 2; tick <= 5; tick++ {
		p.Run(tick)
	}
	if len(a.runs) != 1 {
		t.Fatalf("removed task ran again: runs=%v", a.runs)
	}
}

func TestPeriodicTickOverflow(t *testing.T) {
	p := NewPeriodic()
	const start = ^uint32(0) - 2 // 3 ticks from overflow
	var tick = start
	a := &countingTask{tick: &tick}
	p.AddTask("a", a, 5, tick)

	for i := 0; i < 10; i++ {
		tick++
		p.Run(tick)
	}

	if len(a.runs) == 0 {
		t.Fatal("periodic task should still fire across a tick counter overflow")
	}
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
