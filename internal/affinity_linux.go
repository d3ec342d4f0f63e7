// CPU pinning for the realtime scheduler's simulated-interrupt goroutine.

//go:build linux

package ucosm_internal

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinCurrentGoroutine locks the calling goroutine to its current OS
// thread and restricts that thread's affinity to a single CPU: the
// lowest-numbered one in its allowed set (see schedGetCPU), which need
// not be the one it is presently running on. SoftOneShotTimer uses this so its
// callback goroutine behaves like a fixed-core hardware interrupt
// instead of migrating between cores and adding scheduling jitter to
// the realtime policy's tick accounting.
func PinCurrentGoroutine() {
	runtime.LockOSThread()

	cpu := schedGetCPU()
	if cpu < 0 {
		return
	}

	var cpuSet unix.CPUSet
	cpuSet.Zero()
	cpuSet.Set(cpu)
	if err := unix.SchedSetaffinity(0, &cpuSet); err != nil {
		fmt.Fprintf(os.Stderr, "unix.SchedSetaffinity: %v", err)
	}
}

// schedGetCPU reports the CPU the calling thread is currently running
// on, or -1 if it cannot be determined. unix.SchedGetaffinity reports
// the allowed set, not the current CPU, so this derives it from the
// first bit set in that set as a best-effort approximation when a
// direct getcpu(2) wrapper is unavailable.
func schedGetCPU() int {
	var cpuSet unix.CPUSet
	if err := unix.SchedGetaffinity(0, &cpuSet); err != nil {
		return -1
	}
	for cpu := 0; cpu < unix.CPU_SETSIZE; cpu++ {
		if cpuSet.IsSet(cpu) {
			return cpu
		}
	}
	return -1
}

// AvailableCPUCount reports the number of CPUs this process is allowed
// to run on, based on scheduler affinity, falling back to
// runtime.NumCPU() if the affinity mask cannot be read.
func AvailableCPUCount() int {
	var cpuSet unix.CPUSet
	err := unix.SchedGetaffinity(os.Getpid(), &cpuSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unix.SchedGetaffinity: %v", err)
		return runtime.NumCPU()
	}
	count := cpuSet.Count()
	if count > runtime.NumCPU() {
		count = runtime.NumCPU()
	}
	return count
}
