//go:build !unix

package ucosm_internal

import (
	"fmt"
	"time"
)

// ClkTckDuration has no kernel clock-tick source to query outside unix
// platforms.
func ClkTckDuration() (time.Duration, error) {
	return 0, fmt.Errorf("ucosm: ClkTckDuration is not supported on this platform")
}
