// Package ucosm is the public facade over the scheduling engine in
// internal/: a rank-ordered intrusive task list underlies three
// cooperative, single-threaded scheduler policies (periodic, fair-share
// and realtime), plus a resumable-task helper, a goroutine-backed
// coroutine task, and a set of lock-free real-time IPC primitives.
package ucosm

import (
	"time"

	"github.com/sirupsen/logrus"

	internal "github.com/ucosm-go/ucosm/internal"
)

// Task is the unit of work every scheduler runs.
type Task = internal.Task

// TaskBase is embeddable by a Task implementation that has nothing to
// add to the default Name().
type TaskBase = internal.TaskBase

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc = internal.TaskFunc

// TaskHandle is returned by every scheduler's AddTask; it is the only
// way to later remove that task.
type TaskHandle = internal.TaskHandle

// TaskSnapshot is a race-free, point-in-time view of one scheduled task.
type TaskSnapshot = internal.TaskSnapshot

// NewTaskFunc wraps fn as a Task named name.
func NewTaskFunc(name string, fn func()) *TaskFunc {
	return internal.NewTaskFunc(name, fn)
}

// Periodic is a cooperative scheduler where each task runs once its
// fixed period elapses, picked round-robin among ties.
type Periodic = internal.Periodic

func NewPeriodic() *Periodic { return internal.NewPeriodic() }

// FairShare is a CFS-style scheduler: the task with the least
// accumulated, priority-weighted virtual runtime runs next.
type FairShare = internal.FairShare

func NewFairShare() *FairShare { return internal.NewFairShare() }

const (
	MinPriority     = internal.MinPriority
	MaxPriority     = internal.MaxPriority
	DefaultPriority = internal.DefaultPriority
)

// Realtime is driven by a OneShotTimer rather than by polling; it arms
// the timer for the next due task and processes due tasks from that
// timer's callback, which can be interrupt context.
type Realtime = internal.Realtime

func NewRealtime(timer OneShotTimer) *Realtime { return internal.NewRealtime(timer) }

// OneShotTimer is the hardware (or simulated) collaborator a Realtime
// scheduler is driven by.
type OneShotTimer = internal.OneShotTimer

// SoftOneShotTimer is a reference OneShotTimer built on time.Timer, for
// use where no hardware timer peripheral is being targeted.
type SoftOneShotTimer = internal.SoftOneShotTimer

func NewSoftOneShotTimer(tickDuration time.Duration) *SoftOneShotTimer {
	return internal.NewSoftOneShotTimer(tickDuration)
}

// ResumableBase is embeddable by a Task whose Run needs to suspend and
// resume at a labeled continuation point without its own goroutine.
type ResumableBase = internal.ResumableBase

const ResumableLineDone = internal.ResumableLineDone

// Coroutine substitutes for stack-copying coroutines: it runs its body
// on a dedicated goroutine and rendezvous with its scheduler over a pair
// of channels each time it is Run or the body calls Yield.
type Coroutine = internal.Coroutine
type CoroutineFunc = internal.CoroutineFunc
type Yielder = internal.Yielder

// NewCoroutine creates a coroutine task backed by fn. If sp is non-nil,
// its stack record is drawn from and returned to that pool.
func NewCoroutine(name string, fn CoroutineFunc, sp *StackPool) *Coroutine {
	return internal.NewCoroutine(name, fn, sp)
}

// StackPool hands out reusable per-coroutine diagnostic stack records.
type StackPool = internal.StackPool

func NewStackPool(stackSize, maxPoolSize int) *StackPool {
	return internal.NewStackPool(stackSize, maxPoolSize)
}

// SPSCQueue is a lock-free single-producer/single-consumer ring buffer.
type SPSCQueue[T any] = internal.SPSCQueue[T]

func NewSPSCQueue[T any](capacity int) *SPSCQueue[T] {
	return internal.NewSPSCQueue[T](capacity)
}

// SharedVar is a lock-free versioned shared variable.
type SharedVar[T any] = internal.SharedVar[T]

func NewSharedVar[T any](initial T) *SharedVar[T] {
	return internal.NewSharedVar(initial)
}

// EventFlags is a lock-free atomic bitset for task-to-task signaling.
type EventFlags = internal.EventFlags

// SchedulerSet bundles the three scheduler policies a demo instance
// runs, as built by Run.
type SchedulerSet = internal.SchedulerSet

// RegisterTaskBuilder registers a function invoked once at startup to
// populate a freshly built SchedulerSet with tasks.
func RegisterTaskBuilder(tb func(tasksConfig any, rt *SchedulerSet) error) {
	internal.RegisterTaskBuilder(tb)
}

// Run is the demo harness entry point: load config, build the three
// schedulers, run every registered task builder, then drive the
// schedulers until a termination signal arrives.
func Run(tasksConfig any) int {
	return internal.Run(tasksConfig)
}

// GetRootLogger returns the shared root logger, primarily useful for
// tests that need to collect its output.
func GetRootLogger() *internal.CollectableLogger {
	return internal.GetRootLogger()
}

// NewCompLogger returns a logger scoped to the named component.
func NewCompLogger(compName string) *logrus.Entry {
	return internal.NewCompLogger(compName)
}
