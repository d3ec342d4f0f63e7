package ucosm_internal

import "testing"

func TestFairSharePriorityRatio(t *testing.T) {
	fs := NewFairShare()
	fs.Tick = func(Task) uint32 { return 1 }

	var highRuns, lowRuns int
	high := NewTaskFunc("high", func() { highRuns++ })
	low := NewTaskFunc("low", func() { lowRuns++ })

	// Priority 3 accumulates virtual runtime 8x faster than priority 0,
	// so over many Run calls the high-priority (lower number) task
	// should run roughly 8x more often.
	fs.AddTask("high", high, 0)
	fs.AddTask("low", low, 3)

	const iterations = 900
	for i := 0; i < iterations; i++ {
		fs.Run()
	}

	if highRuns == 0 || lowRuns == 0 {
		t.Fatalf("expected both tasks to run: high=%d low=%d", highRuns, lowRuns)
	}
	// Priority 0 shifts its rank delta left by 0 (grows slowly, picked
	// often); priority 3 shifts left by 3 (grows 8x faster, picked
	// rarely) — so the high-priority task should run roughly 8x more
	// often than the low-priority one.
	ratio := float64(highRuns) / float64(lowRuns)
	if ratio < 4 || ratio > 16 {
		t.Fatalf("highRuns/lowRuns ratio: want ~8, got %.2f (high=%d low=%d)", ratio, highRuns, lowRuns)
	}
}

func TestFairShareRemoveTask(t *testing.T) {
	fs := NewFairShare()
	var runs int
	task := NewTaskFunc("x", func() { runs++ })
	h := fs.AddTask("x", task, DefaultPriority)

	fs.Run()
	if runs != 1 {
		t.Fatalf("want 1 run, got %d", runs)
	}
	if !fs.RemoveTask(h) {
		t.Fatal("RemoveTask should succeed")
	}
	if !fs.Empty() {
		t.Fatal("scheduler should be empty after removing the only task")
	}
}

func TestClampPriority(t *testing.T) {
	if clampPriority(MaxPriority+5) != MaxPriority {
		t.Fatalf("clampPriority should cap at %d", MaxPriority)
	}
	if clampPriority(3) != 3 {
		t.Fatal("clampPriority should pass through in-range values")
	}
}
