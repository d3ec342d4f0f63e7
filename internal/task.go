package ucosm_internal

// Task is the unit of work a scheduler frame tracks. Run is invoked by
// the owning scheduler with its list mutex (for realtime, the interrupt
// guard) already held; the fair-share scheduler turns its Tick result
// into the task's rank delta after Run returns.
//
// Name is used for diagnostics (snapshot listing, logging) only; it has
// no bearing on ordering or scheduling behavior.
type Task interface {
	Run()
	// Init is called once, when the task is first linked into a
	// scheduler via AddTask. Returning false aborts the add: the task
	// is never linked and the caller gets a zero TaskHandle.
	Init() bool
	// Deinit is called once, when the task is unlinked — whether via
	// RemoveTask, by being a one-shot/resumable/coroutine task that
	// finished on its own, or via Clear.
	Deinit()
	Name() string
}

// TaskBase is embeddable by concrete tasks that don't need a distinct
// Name, mirroring the teacher's GeneratorBase pattern of supplying
// no-op/default hooks via embedding rather than requiring every task
// author to implement boilerplate.
type TaskBase struct {
	TaskName string
}

func (b *TaskBase) Name() string {
	if b.TaskName == "" {
		return "task"
	}
	return b.TaskName
}

// Init's default accepts the task unconditionally; override it for a
// task that needs to validate its own configuration before joining a
// scheduler.
func (b *TaskBase) Init() bool { return true }

// Deinit's default does nothing; override it for a task that holds a
// resource (a file, a pooled buffer not already handled by the task
// type itself) that must be released when the task leaves its
// scheduler.
func (b *TaskBase) Deinit() {}

// TaskFunc adapts a plain function to the Task interface, the same
// "function as task" convenience the teacher offers via its
// TaskActivity-returning closures in scheduler.go.
type TaskFunc struct {
	TaskBase
	Fn func()
}

func NewTaskFunc(name string, fn func()) *TaskFunc {
	return &TaskFunc{TaskBase: TaskBase{TaskName: name}, Fn: fn}
}

func (f *TaskFunc) Run() {
	if f.Fn != nil {
		f.Fn()
	}
}

// selfTerminating is implemented by ResumableBase-embedding tasks (and
// any other task that knows when it is finished). A scheduler checks
// for it after every Run and removes the task once Done() is true,
// instead of waiting for the caller to notice and call RemoveTask.
type selfTerminating interface {
	Done() bool
}

func isDone(t Task) bool {
	st, ok := t.(selfTerminating)
	return ok && st.Done()
}

// TaskHandle is returned to callers by AddTask; it is the only way to
// remove a task from its scheduler, and it remains valid (if inert)
// after the task has been removed, by itself or by the scheduler.
type TaskHandle struct {
	node *taskNode
}

// Linked reports whether the handle's task is still tracked by its
// scheduler. It is race-free only with respect to a single-threaded
// caller of the owning scheduler's Run; rt_scheduler.go's SetDelay and
// RemoveTask check it under the interrupt guard.
func (h TaskHandle) Linked() bool {
	return h.node != nil && h.node.Linked()
}

func (h TaskHandle) Name() string {
	if h.node == nil {
		return ""
	}
	return h.node.name
}

// TaskSnapshot is a race-free, deep-cloned view of one scheduled task,
// produced by a scheduler's Snapshot method for introspection/listing
// (spec.md §4.D "race-free introspection").
type TaskSnapshot struct {
	Name     string
	Rank     uint32
	Period   uint32
	Priority uint8
}
