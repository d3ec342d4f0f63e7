package ucosm_internal

import (
	"fmt"
	"io"
	"sync"

	"github.com/huandu/go-clone"
)

// schedFrame is the common bookkeeping shared by all three scheduler
// policies (periodic, fair-share, realtime): the rank-ordered task list,
// a round-robin cursor sentinel, the "currently running task" pointer
// exposed to ThisTask, and an optional idle hook invoked whenever the
// list has nothing runnable. It plays the role the teacher's Scheduler
// struct plays for the heap/dispatcher pair in scheduler.go, minus the
// channel-driven worker pool: spec.md §5 runs every policy synchronously
// on the caller's goroutine.
//
// schedFrame's mutex serializes AddTask/RemoveTask/Snapshot/Clear with
// each policy's Run, which holds it for the whole call (periodic.go,
// fairshare.go); realtime uses the same mutex as its interrupt-disable
// guard (see rt_scheduler.go) because its processIT runs from a
// simulated ISR.
type schedFrame struct {
	mu      sync.Mutex // held by Run and by every list access made outside Run
	list    *rankList
	cursor  taskNode
	running *taskNode
	idle    func()
	name    string
}

func newSchedFrame(name string) *schedFrame {
	f := &schedFrame{
		list: newRankList(),
		name: name,
	}
	f.cursor.isCursor = true
	f.list.insert(&f.cursor)
	return f
}

// SetIdle installs a hook invoked once per Run call that found nothing
// to execute (spec.md §4.B "idle hook").
func (f *schedFrame) SetIdle(idle func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idle = idle
}

// addNode links n into the list, provided its task accepts Init; a task
// that rejects Init is never linked, and the caller gets a zero handle.
func (f *schedFrame) addNode(n *taskNode) TaskHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !n.task.Init() {
		return TaskHandle{}
	}
	f.list.insert(n)
	return TaskHandle{node: n}
}

// RemoveTask unlinks the task referenced by h, if still linked. It is
// safe to call at any time, including from within the task's own Run
// (spec.md §7 Open Question: "is remove_task safe mid-run?" — resolved
// here by checking Linked() before touching the list, so a double
// removal, or removal of an already-completed one-shot task, is a no-op
// rather than a corruption).
func (f *schedFrame) RemoveTask(h TaskHandle) bool {
	// A task removing itself from within its own Run calls this
	// reentrantly, on the same goroutine that already holds f.mu for the
	// duration of Run (see periodic.go/fairshare.go) — Go's mutex isn't
	// reentrant, so that case is detected and handled without locking
	// again, rather than deadlocking.
	if h.node != nil && h.node == f.running {
		if !h.node.Linked() {
			return false
		}
		f.list.Erase(h.node)
		h.node.task.Deinit()
		return true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !h.Linked() {
		return false
	}
	f.list.Erase(h.node)
	h.node.task.Deinit()
	return true
}

func (f *schedFrame) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list.Len() - 1 // exclude the cursor sentinel
}

func (f *schedFrame) Empty() bool {
	return f.Len() == 0
}

// Clear removes every task, leaving the cursor in place.
func (f *schedFrame) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p := f.list.head.next; p != &f.list.tail; p = p.next {
		if !p.isCursor {
			p.task.Deinit()
		}
	}
	f.list.Clear()
	f.cursor.prev, f.cursor.next, f.cursor.list = nil, nil, nil
	f.list.insert(&f.cursor)
	f.running = nil
}

// ThisTask returns the handle of the task currently executing, or the
// zero TaskHandle if called outside of a Run (spec.md §4.B "ThisTask",
// used by a task to remove or reschedule itself from within its own
// Run). Deliberately lock-free: f.running is only ever written by the
// goroutine that is itself inside Run, and ThisTask's other legitimate
// caller is that very task, on that same goroutine.
func (f *schedFrame) ThisTask() TaskHandle {
	if f.running == nil {
		return TaskHandle{}
	}
	return TaskHandle{node: f.running}
}

// Snapshot returns a deep-cloned, race-free listing of every scheduled
// task, in current rank order. Cloning the node data (rather than handing
// out live taskNode pointers) follows the teacher's SnapStats idiom of
// never exposing live internal state to a caller that might be running
// concurrently with the dispatcher.
func (f *schedFrame) Snapshot() []TaskSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snaps := make([]TaskSnapshot, 0, f.list.Len())
	for p := f.list.head.next; p != &f.list.tail; p = p.next {
		if p.isCursor {
			continue
		}
		snaps = append(snaps, clone.Clone(TaskSnapshot{
			Name:     p.name,
			Rank:     p.rank,
			Period:   p.period,
			Priority: p.priority,
		}).(TaskSnapshot))
	}
	return snaps
}

// List writes a race-free, human-readable listing of every scheduled
// task, in rank order, to w, with fields separated by sep. It shares the
// same deep-cloned snapshot path as Snapshot, so it never observes a
// task mid-reposition.
func (f *schedFrame) List(w io.Writer, sep string) error {
	for _, s := range f.Snapshot() {
		if _, err := fmt.Fprintf(w, "%s%s%d%s%d%s%d\n", s.Name, sep, s.Rank, sep, s.Period, sep, s.Priority); err != nil {
			return err
		}
	}
	return nil
}

func (f *schedFrame) String() string {
	return fmt.Sprintf("%s{tasks=%d}", f.name, f.Len())
}
