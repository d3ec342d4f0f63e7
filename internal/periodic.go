package ucosm_internal

// Periodic scheduler: each task carries a period (in scheduler ticks)
// and runs once its rank (next-due tick) is reached. Ties and several
// tasks becoming due in the same call are resolved round-robin via the
// cursor sentinel, so no task can starve behind one that is perpetually
// due (ported from ucosm's periodic/periodic_scheduler.hpp run /
// updateCursor).
type Periodic struct {
	*schedFrame
}

func NewPeriodic() *Periodic {
	return &Periodic{schedFrame: newSchedFrame("periodic")}
}

// AddTask schedules t to first run at tick now+period, then every period
// ticks thereafter. A period of 0 degenerates to a one-shot: the task
// runs exactly once, at now, and removes itself afterward (Invariant P1).
func (p *Periodic) AddTask(name string, t Task, period uint32, now uint32) TaskHandle {
	n := &taskNode{
		task:   t,
		name:   name,
		period: period,
		rank:   now + period,
	}
	return p.addNode(n)
}

// Run examines the task just past the cursor and, if it is due, runs it
// — at most one task per call (spec.md §4.E). "Due" is checked anchored
// at the cursor's own rank (the rank of whichever task last ran): T -
// cursor.Rank >= N.Rank - cursor.Rank, so the comparison stays correct
// across a tick-counter overflow as long as now and every task's rank
// stay within half a uint32 turn of the cursor (spec.md §3 Invariant
// W1). Several tasks becoming due in the same tick are resolved one per
// Run call, round-robin, since the cursor only ever advances past the
// task it just ran. A task still linked after its run gets the new rank
// now + period.
func (p *Periodic) Run(now uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.list.Len() <= 1 {
		if p.idle != nil {
			p.idle()
		}
		return
	}

	n := p.cursor.next
	if n == &p.list.tail {
		n = p.list.head.next
	}
	if n == &p.cursor {
		if p.idle != nil {
			p.idle()
		}
		return
	}

	due := !rankLess(p.cursor.rank, now, n.rank) // now - cursor.rank >= n.rank - cursor.rank
	if !due {
		if p.idle != nil {
			p.idle()
		}
		return
	}

	// Park the cursor where n currently sits, anchoring it at n's
	// current rank, before n itself moves — so the next Run call
	// resumes right after it (round-robin) with a correct due anchor.
	p.list.moveAfter(&p.cursor, n)
	p.cursor.rank = n.rank

	p.running = n
	n.task.Run()
	p.running = nil

	// A task that removed itself during Run is already unlinked and
	// deinitialized.
	if !n.Linked() {
		return
	}
	if n.period == 0 || isDone(n.task) {
		p.list.Erase(n)
		n.task.Deinit()
	} else {
		n.rank = now + n.period
		p.list.reposition(n)
	}
}
