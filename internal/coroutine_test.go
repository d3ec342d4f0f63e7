package ucosm_internal

import "testing"

func TestCoroutinePreservesLocalsAcrossYield(t *testing.T) {
	var observed []int

	co := NewCoroutine("counter", func(y *Yielder) {
		// Locals declared here live on this goroutine's own stack and
		// survive every Yield, unlike a state machine that has to save
		// them explicitly.
		sum := 0
		for i := 1; i <= 3; i++ {
			sum += i
			observed = append(observed, sum)
			y.Yield()
		}
	}, nil)

	// 3 yields inside the loop need 3 Run calls to surface each
	// observation, plus one more to resume past the last yield and let
	// the body return.
	for i := 0; i < 4; i++ {
		co.Run()
	}

	want := []int{1, 3, 6}
	if len(observed) != len(want) {
		t.Fatalf("observed: want %v, got %v", want, observed)
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Fatalf("observed[%d]: want %d, got %d", i, want[i], observed[i])
		}
	}
	if !co.Done() {
		t.Fatal("coroutine should be done after its body returned")
	}
}

func TestCoroutineRunAfterDoneIsNoop(t *testing.T) {
	runs := 0
	co := NewCoroutine("once", func(y *Yielder) {
		runs++
	}, nil)

	co.Run()
	if !co.Done() {
		t.Fatal("coroutine with no Yield calls should finish on first Run")
	}
	co.Run()
	co.Run()
	if runs != 1 {
		t.Fatalf("body should run exactly once, ran %d times", runs)
	}
}

func TestCoroutineWithStackPool(t *testing.T) {
	sp := NewStackPool(64, 4)

	co := NewCoroutine("pooled", func(y *Yielder) {
		y.Yield()
	}, sp)

	co.Run()
	if co.Done() {
		t.Fatal("coroutine should be suspended at the Yield, not done")
	}
	co.Run()
	if !co.Done() {
		t.Fatal("coroutine should finish after resuming past its only Yield")
	}
	if sp.poolSize != 1 {
		t.Fatalf("stack record should have been returned to the pool, poolSize=%d", sp.poolSize)
	}
}
