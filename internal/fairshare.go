package ucosm_internal

// FairShare is a CFS-style scheduler: instead of a fixed period, each
// task's rank is its virtual runtime, advanced by the ticks it consumed
// while running, shifted left by its priority so higher-priority tasks
// (lower numbers) accumulate virtual runtime more slowly and so get
// picked more often (ported from ucosm's cfs/cfs_scheduler.hpp run). Run
// always executes whichever task has the smallest rank; among
// equally-ranked tasks it runs the one nearest the head of the list. The
// cursor takes no part in that choice, so ties are not broken by cursor
// position the way periodic breaks them.
const (
	MinPriority     = 0
	MaxPriority     = 16
	DefaultPriority = 2
)

func clampPriority(priority uint8) uint8 {
	if priority > MaxPriority {
		return MaxPriority
	}
	return priority
}

type FairShare struct {
	*schedFrame
	// Tick is called once per Run, after the task returns, to measure
	// how many ticks that task consumed; its result becomes the rank
	// delta. The
	// default, set in NewFairShare, counts a flat single tick per run,
	// matching ucosm's sample instrumented-duration ticker when no
	// finer-grained clock is wired in.
	Tick func(t Task) uint32
}

func NewFairShare() *FairShare {
	return &FairShare{
		schedFrame: newSchedFrame("fairshare"),
		Tick:       func(Task) uint32 { return 1 },
	}
}

// AddTask schedules t with the given priority (0..16; larger values are
// clamped to MaxPriority, and callers that want the ucosm default pass
// DefaultPriority). The new task's rank is seeded at the cursor's rank.
// Run never changes the cursor's rank, so that seed is always 0: a task
// added after others have accumulated virtual runtime starts ahead of
// them and keeps being picked until its own rank catches up.
func (fs *FairShare) AddTask(name string, t Task, priority uint8) TaskHandle {
	n := &taskNode{
		task:     t,
		name:     name,
		priority: clampPriority(priority),
		rank:     fs.cursor.rank,
	}
	return fs.addNode(n)
}

// Run picks the lowest-rank task (the head of the list, since it is
// always kept sorted), executes it, and advances its rank by the
// measured tick delta shifted left by its priority before repositioning
// it — exactly the rank update in ucosm's CFSScheduler::run.
func (fs *FairShare) Run() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.list.Len() <= 1 {
		if fs.idle != nil {
			fs.idle()
		}
		return
	}

	n := fs.list.head.next
	if n.isCursor {
		n = n.next
	}
	if n == &fs.list.tail {
		if fs.idle != nil {
			fs.idle()
		}
		return
	}

	fs.running = n
	n.task.Run()
	fs.running = nil

	// A task that removed itself during Run is already unlinked and
	// deinitialized; there is no rank or cursor to update for it.
	if !n.Linked() {
		return
	}
	if isDone(n.task) {
		fs.list.Erase(n)
		n.task.Deinit()
		return
	}

	delta := uint32(1)
	if fs.Tick != nil {
		delta = fs.Tick(n.task)
	}
	n.rank += delta << n.priority
	fs.list.reposition(n)
	fs.list.moveAfter(&fs.cursor, n)
}
