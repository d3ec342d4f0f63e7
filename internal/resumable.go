package ucosm_internal

// Resumable replaces ucosm's UCOSM_START/WAIT/YIELD/WAIT_UNTIL/RESTART/
// END macro family (iresumable_task.hpp), which rely on C's switch-based
// "protothread" trick to re-enter a function at its last suspension
// point. Go has no preprocessor, but the same switch/goto continuation
// pattern is idiomatic Go when a generator needs to resume mid-function
// without its own goroutine+channel pair (that heavier approach is what
// Coroutine uses instead, for bodies that need real local-variable
// preservation across an arbitrary number of suspension points).
//
// A resumable task embeds ResumableBase and writes its Run method as:
//
//	func (t *myTask) Run() {
//		switch t.Line() {
//		case 1:
//			goto L1
//		case 2:
//			goto L2
//		}
//		// ... code before the first wait point ...
//	L1:
//		// The label sits right before the check it guards, so a resumed
//		// call re-evaluates the same condition instead of skipping past it.
//		if t.Wait(1, ready()) {
//			return
//		}
//	L2:
//		if t.Wait(2, done()) {
//			return
//		}
//		// ... final stretch ...
//		t.Restart()
//	}
//
// ResumableBase.Line starts at 0, the entry point of the function.
const (
	ResumableLineDone = -1
)

// ResumableBase tracks the continuation line number for a resumable
// task. It is embeddable, the same pattern as TaskBase.
type ResumableBase struct {
	line int
}

// Line is the continuation point to re-enter at on the next Run.
func (r *ResumableBase) Line() int {
	return r.line
}

// SetLine records the point to resume at on the next Run call, then
// returns to the caller, suspending the task's progress at that point.
func (r *ResumableBase) SetLine(n int) {
	if n < 0 {
		n = 0
	}
	r.line = n
}

// Restart resets the continuation to the function's entry point,
// equivalent to UCOSM_RESTART. It is meant to be called from within the
// task's own Run, right before returning.
func (r *ResumableBase) Restart() {
	r.line = 0
}

// Reset has the same effect as Restart but is meant for an external
// caller — e.g. a supervising task reacting to an out-of-band event —
// that wants to force a resumable task back to its entry point between
// Run calls, rather than the task restarting itself from within Run.
func (r *ResumableBase) Reset() {
	r.line = 0
}

// End marks the task as finished; the owning scheduler checks Done()
// right after the Run that called End and removes the task rather than
// invoke it again. Equivalent to UCOSM_END.
func (r *ResumableBase) End() {
	r.line = ResumableLineDone
}

// Done reports whether the task reached End() (or had its line
// corrupted to an invalid negative value, which is treated the same
// way: a corrupted continuation line can never be validly resumed, so
// the safe outcome is identical to an orderly finish — the task is
// removed rather than re-entered).
func (r *ResumableBase) Done() bool {
	return r.line < 0
}

// Wait is the WAIT_UNTIL/WAIT helper: if cond is false it records line
// as the resume point and reports true, meaning "the caller's Run should
// return now"; a caller typically writes:
//
//	if t.Wait(lineN, cond) { return }
//
// and places the matching label (reached via the switch in Run) right
// before that line, so a resumed Run re-evaluates cond.
func (r *ResumableBase) Wait(line int, cond bool) bool {
	if cond {
		return false
	}
	r.SetLine(line)
	return true
}

// Yield unconditionally suspends until the next Run, equivalent to
// UCOSM_YIELD: `if t.Yield(lineN) { return }`.
func (r *ResumableBase) Yield(line int) bool {
	r.SetLine(line)
	return true
}
