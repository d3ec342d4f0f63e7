// Jiffy-based reference tick source, for wiring a realtime scheduler's
// notion of "tick" to the kernel's own clock tick rate rather than an
// arbitrary duration.

//go:build unix

package ucosm_internal

import (
	"time"

	"github.com/tklauser/go-sysconf"
)

// ClkTckDuration returns the duration of one kernel clock tick
// (1/CLK_TCK seconds), for callers that want SoftOneShotTimer's
// TickDuration to match the host's native jiffy rate instead of a
// hand-picked value.
func ClkTckDuration() (time.Duration, error) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, err
	}
	return time.Second / time.Duration(clktck), nil
}
