// CPU pinning for the realtime scheduler's simulated-interrupt goroutine.

//go:build !linux

package ucosm_internal

import "runtime"

// PinCurrentGoroutine is a no-op on platforms without a CPU-affinity
// syscall; the callback goroutine still runs, just without a pinning
// guarantee.
func PinCurrentGoroutine() {}

func AvailableCPUCount() int {
	return runtime.NumCPU()
}
