package ucosm_internal

import (
	"sync"
	"time"
)

// SoftOneShotTimer is a reference OneShotTimer built on time.AfterFunc,
// standing in for a hardware interrupt source: each tick is
// TickDuration long, and firing invokes the armed callback directly from
// the goroutine time.AfterFunc starts for that firing, simulating an
// ISR. Production use on real hardware would replace this with a driver
// bound to an actual timer peripheral; this is the one ucosm ships
// without hardware to target, used by the demo harness (the realtime
// scheduler's tests use their own deterministic fakeTimer).
type SoftOneShotTimer struct {
	TickDuration time.Duration

	mu    sync.Mutex
	timer *time.Timer
	cb    func()
	// pin, when non-nil, is invoked once, from the goroutine of the next
	// firing, so a platform-specific affinity pin (affinity_linux.go) can
	// bind that goroutine to a single CPU. Later firings run on new
	// goroutines and are not pinned.
	pin func()
}

func NewSoftOneShotTimer(tickDuration time.Duration) *SoftOneShotTimer {
	return &SoftOneShotTimer{TickDuration: tickDuration}
}

// PinToCurrentCPU arranges for the goroutine of the next firing to be
// pinned to a single CPU via PinCurrentGoroutine (affinity_*.go); it has
// no effect on later firings, which each run on a new goroutine.
func (t *SoftOneShotTimer) PinToCurrentCPU() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pin = PinCurrentGoroutine
}

func (t *SoftOneShotTimer) Arm(ticks uint32, cb func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.cb = cb
	d := time.Duration(ticks) * t.TickDuration
	if d <= 0 {
		d = t.TickDuration
	}
	t.timer = time.AfterFunc(d, t.fire)
}

func (t *SoftOneShotTimer) fire() {
	t.mu.Lock()
	cb := t.cb
	pin := t.pin
	t.pin = nil
	t.mu.Unlock()

	if pin != nil {
		pin()
	}
	if cb != nil {
		cb()
	}
}

func (t *SoftOneShotTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.cb = nil
}
