package ucosm_internal

import "runtime"

// Coroutine substitutes for ucosm's stack-copying IThread (setjmp /
// longjmp plus a manual stack-buffer copy): Go offers no equivalent of
// longjmp, so each Coroutine gets its own real goroutine with its own
// runtime-managed stack, and Run/Yield rendezvous over a pair of
// unbuffered channels instead of swapping stack contents. Locals live on
// that goroutine's stack exactly as they would between setjmp calls in
// the original, so the "preserve locals across suspension points"
// behavior is unaffected by the substitution.
//
// A coroutine removed from its scheduler while suspended mid-Yield (as
// opposed to one that finished on its own) leaves its goroutine parked
// on <-resume forever; Go has nothing equivalent to discarding a stack
// outright. Callers that need to tear down a still-running coroutine
// should let it run to completion rather than removing it mid-flight.
type Coroutine struct {
	TaskBase

	fn CoroutineFunc
	sp *StackPool

	resume  chan struct{}
	yielded chan struct{}
	started bool
	done    bool
	record  *stackRecord
}

// CoroutineFunc is the body of a coroutine task; it cooperatively
// suspends by calling y.Yield() and resumes exactly where it left off
// the next time the owning scheduler runs it.
type CoroutineFunc func(y *Yielder)

// Yielder is handed to a CoroutineFunc so it can suspend itself.
type Yielder struct {
	resume  chan struct{}
	yielded chan struct{}
	record  *stackRecord
}

// Yield suspends the calling coroutine until its task is Run again.
func (y *Yielder) Yield() {
	y.YieldWatermark(1)
}

// YieldWatermark suspends the calling coroutine exactly like Yield, and
// additionally records n as this yield point's stack watermark for
// StackUsage diagnostics. It returns ErrStackSizeExceeded if n exceeds
// the pooled stack record's reserved size; the watermark is clamped
// rather than the coroutine aborted.
func (y *Yielder) YieldWatermark(n int) error {
	truncated := y.record.observe(n)
	y.yielded <- struct{}{}
	<-y.resume
	if truncated {
		return ErrStackSizeExceeded
	}
	return nil
}

// NewCoroutine creates a coroutine task backed by fn. If sp is non-nil,
// its stackRecord is drawn from the pool instead of allocated fresh,
// and returned to the pool when the coroutine finishes.
func NewCoroutine(name string, fn CoroutineFunc, sp *StackPool) *Coroutine {
	return &Coroutine{
		TaskBase: TaskBase{TaskName: name},
		fn:       fn,
		sp:       sp,
		resume:   make(chan struct{}),
		yielded:  make(chan struct{}),
	}
}

// Run executes the coroutine until it either yields or returns. The
// first call starts the goroutine; every subsequent call resumes it
// past its last Yield. Calling Run again after the coroutine has
// returned is a no-op (Invariant of a finished coroutine never
// re-entering).
func (c *Coroutine) Run() {
	if c.done {
		return
	}

	if !c.started {
		c.started = true
		if c.sp != nil {
			c.record = c.sp.Get()
		} else {
			c.record = &stackRecord{buf: make([]byte, 0)}
		}
		y := &Yielder{resume: c.resume, yielded: c.yielded, record: c.record}
		go func() {
			c.fn(y)
			close(c.yielded)
		}()
	} else {
		c.resume <- struct{}{}
	}

	if _, ok := <-c.yielded; !ok {
		c.done = true
		if c.sp != nil && c.record != nil {
			c.sp.Return(c.record)
			c.record = nil
		}
	}
}

// Done reports whether the coroutine has returned.
func (c *Coroutine) Done() bool {
	return c.done
}

// StackUsage returns the high-water mark observed on this coroutine's
// diagnostic stack record, or 0 if it hasn't started or carries no
// pooled record. It is a coarse diagnostic, not the real goroutine
// stack size, which the Go runtime grows and shrinks on its own and
// does not expose per-goroutine.
func (c *Coroutine) StackUsage() int {
	if c.record == nil {
		return 0
	}
	return c.record.highWater
}

// Gosched yields the Go scheduler without suspending the coroutine's own
// state machine; useful inside a CoroutineFunc that wants to cooperate
// with other goroutines without handing control back to its owning
// scheduler.
func Gosched() {
	runtime.Gosched()
}
