package ucosm_internal

// Realtime is driven by a hardware (or simulated) one-shot timer rather
// than by repeated polling: it arms OneShotTimer for the next due task
// and only does work when that timer fires, from what is effectively
// interrupt context (ported from ucosm's rt/rt_scheduler.hpp). Because
// the timer callback can run concurrently with AddTask/RemoveTask calls
// made from normal (non-ISR) code, every list mutation is wrapped in an
// interrupt-disable/enable guard — here, a plain mutex standing in for
// the hardware interrupt mask ucosm uses, since Go has no direct
// equivalent of cli/sti.
type Realtime struct {
	*schedFrame
	timer OneShotTimer
	tick  uint32
}

func NewRealtime(timer OneShotTimer) *Realtime {
	rt := &Realtime{
		schedFrame: newSchedFrame("realtime"),
		timer:      timer,
	}
	return rt
}

// lockIT / unlockIT bracket every access to the task list, matching the
// disable-interrupts / critical-section / enable-interrupts shape of
// ucosm's RTScheduler. Named *IT (interrupt-toggle) rather than Lock /
// Unlock to keep the ISR-context intent visible at call sites.
func (rt *Realtime) lockIT()   { rt.mu.Lock() }
func (rt *Realtime) unlockIT() { rt.mu.Unlock() }

// AddTask schedules t to run once, delay ticks from now, then (if
// period is nonzero) every period ticks thereafter — the same period
// semantics as Periodic, but driven by the timer instead of by polling
// Run with an external tick source.
func (rt *Realtime) AddTask(name string, t Task, delay, period uint32) TaskHandle {
	rt.lockIT()
	defer rt.unlockIT()

	if !t.Init() {
		return TaskHandle{}
	}

	n := &taskNode{
		task:   t,
		name:   name,
		period: period,
		rank:   rt.tick + delay,
	}
	rt.list.insert(n)
	rt.armForNextDeadline()
	return TaskHandle{node: n}
}

// SetDelay re-delays an already-scheduled task to delay ticks from now,
// re-arming the timer if the change affects the next deadline. It is a
// no-op returning false if h is not currently linked to this scheduler.
func (rt *Realtime) SetDelay(h TaskHandle, delay uint32) bool {
	rt.lockIT()
	defer rt.unlockIT()
	if !h.Linked() {
		return false
	}
	rt.list.setRank(h.node, rt.tick+delay)
	rt.armForNextDeadline()
	return true
}

func (rt *Realtime) RemoveTask(h TaskHandle) bool {
	// A task removing itself from within its own Run calls this
	// reentrantly while processIT already holds the guard on the same
	// goroutine; detect that case via ThisTask identity and skip
	// relocking instead of deadlocking (same reasoning as
	// schedFrame.RemoveTask).
	if h.node != nil && h.node == rt.running {
		if !h.node.Linked() {
			return false
		}
		rt.list.Erase(h.node)
		rt.armForNextDeadline()
		h.node.task.Deinit()
		return true
	}

	rt.lockIT()
	defer rt.unlockIT()
	if !h.Linked() {
		return false
	}
	rt.list.Erase(h.node)
	rt.armForNextDeadline()
	h.node.task.Deinit()
	return true
}

// armForNextDeadline arms the timer for the soonest-due real task, or
// cancels it if none remain. Caller must hold the guard.
func (rt *Realtime) armForNextDeadline() {
	if rt.list.Len() <= 1 {
		rt.timer.Cancel()
		return
	}
	n := rt.list.head.next
	if n.isCursor {
		n = n.next
	}
	if n == &rt.list.tail {
		rt.timer.Cancel()
		return
	}
	delay := n.rank - rt.tick
	rt.timer.Arm(delay, rt.processIT)
}

// processIT is the timer callback: it runs every task now due, in rank
// order, then re-arms for whatever is due next. It is written to be
// safe to invoke directly from an interrupt handler (no allocation
// beyond what task.Run itself performs, no blocking). "Due" is anchored
// at rt.cursor.rank — the rank of whichever task processIT last
// dispatched — rather than at rt.tick itself, the same cursor-anchored
// form periodic.Run uses, so the comparison never degenerates to a
// constant (spec.md §3 Invariant W1).
func (rt *Realtime) processIT() {
	rt.lockIT()

	n := rt.list.head.next
	for n != &rt.list.tail {
		if n.isCursor {
			n = n.next
			continue
		}
		due := !rankLess(rt.cursor.rank, rt.tick, n.rank)
		if !due {
			break
		}

		next := n.next
		rt.cursor.rank = n.rank
		rt.running = n
		n.task.Run()
		rt.running = nil

		if !n.Linked() {
			// Removed itself via RemoveTask, which already called Deinit.
		} else if n.period == 0 || isDone(n.task) {
			rt.list.Erase(n)
			n.task.Deinit()
		} else {
			n.rank += n.period
			rt.list.reposition(n)
		}
		n = next
	}

	rt.armForNextDeadline()
	rt.unlockIT()
}

// Tick advances the scheduler's internal notion of "now" by one.
// SoftOneShotTimer (soft_timer.go) does not call it: runner.go drives it
// from its own time.Ticker, and a hardware timer integration is expected
// to call Tick from its own ISR before/while arming callbacks, since
// ucosm ties the RT scheduler's time base directly to the timer's own
// counter.
func (rt *Realtime) Tick() {
	rt.lockIT()
	rt.tick++
	rt.unlockIT()
}
