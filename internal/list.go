// Intrusive, allocation-free doubly-linked list of scheduled tasks.
//
// The list is not safe for concurrent use; callers (the scheduler
// policies) serialize access to it themselves (see rt_scheduler.go for
// the one case where that serialization crosses an ISR boundary).

package ucosm_internal

// taskNode is the intrusive link embedded in every task tracked by a
// scheduler. It carries the rank used for ordering (§4.C) together with
// whatever the owning policy needs to recompute that rank after a run:
// Period for the periodic and realtime schedulers, Priority for the
// fair-share one. Unused fields for a given policy simply stay zero,
// mirroring the teacher's single concrete Task struct in scheduler.go
// rather than a hierarchy of policy-specific node types.
type taskNode struct {
	prev, next *taskNode
	list       *taskList

	rank uint32

	// Policy-specific fields, set by whichever scheduler owns this node.
	period   uint32 // periodic, realtime
	priority uint8  // fair-share, clamped 0..16

	task     Task
	name     string
	isCursor bool
}

func (n *taskNode) Linked() bool { return n.list != nil }

func (n *taskNode) Next() *taskNode {
	if n.next == nil || n.next.isSentinel() {
		return nil
	}
	return n.next
}

func (n *taskNode) Prev() *taskNode {
	if n.prev == nil || n.prev.isSentinel() {
		return nil
	}
	return n.prev
}

func (n *taskNode) isSentinel() bool {
	return n.list != nil && (n == &n.list.head || n == &n.list.tail)
}

// taskList is the plain intrusive list (component A); rankList
// (ranklist.go) adds the rank ordering (component C) on top of it. It
// owns two sentinels, head and tail; real task nodes live strictly
// between them (Invariant L1/L2/L3 in spec.md §3).
type taskList struct {
	head, tail taskNode
}

func newTaskList() *taskList {
	l := &taskList{}
	l.head.next = &l.tail
	l.tail.prev = &l.head
	return l
}

func (l *taskList) Empty() bool {
	return l.head.next == &l.tail
}

// Len walks the list; it is O(n), matching the teacher's container/list
// convention (and spec.md §4.A: "size (O(n) walk)").
func (l *taskList) Len() int {
	n := 0
	for p := l.head.next; p != &l.tail; p = p.next {
		n++
	}
	return n
}

// Front panics on an empty list: a checked precondition, not a runtime
// error the caller is expected to recover from (spec.md §4.A).
func (l *taskList) Front() *taskNode {
	if l.Empty() {
		panic("taskList.Front: empty list")
	}
	return l.head.next
}

func (l *taskList) Back() *taskNode {
	if l.Empty() {
		panic("taskList.Back: empty list")
	}
	return l.tail.prev
}

// unlink removes n from whatever chain it is currently part of without
// clearing n.list; used internally by reposition, which keeps the node
// in the same list.
func (l *taskList) unlink(n *taskNode) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (l *taskList) linkAfter(after, n *taskNode) {
	n.next = after.next
	n.prev = after
	after.next.prev = n
	after.next = n
}

func (l *taskList) linkBefore(before, n *taskNode) {
	n.prev = before.prev
	n.next = before
	before.prev.next = n
	before.prev = n
}

// Erase unlinks n from the list; it does nothing if n is not a member of
// l. Invariant L3 holds one level up: every scheduler's AddTask links a
// freshly allocated node, and RemoveTask (schedframe.go,
// rt_scheduler.go) checks Linked() first.
func (l *taskList) Erase(n *taskNode) {
	if n.list != l {
		return
	}
	l.unlink(n)
	n.list = nil
}

func (l *taskList) PushFront(n *taskNode) {
	l.linkAfter(&l.head, n)
	n.list = l
}

func (l *taskList) PushBack(n *taskNode) {
	l.linkBefore(&l.tail, n)
	n.list = l
}

func (l *taskList) InsertAfter(pos, n *taskNode) {
	l.linkAfter(pos, n)
	n.list = l
}

func (l *taskList) InsertBefore(pos, n *taskNode) {
	l.linkBefore(pos, n)
	n.list = l
}

func (l *taskList) Clear() {
	for p := l.head.next; p != &l.tail; {
		next := p.next
		p.prev, p.next, p.list = nil, nil, nil
		p = next
	}
	l.head.next = &l.tail
	l.tail.prev = &l.head
}
