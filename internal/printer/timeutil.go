package printer

import (
	"fmt"
	"time"
)

// FormatDuration returns a short human-readable duration.
// Examples: "350ms", "1.2s", "2m5s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Truncate(time.Second).String()
	}
}
