package model

import (
	"fmt"
	"time"
)

// FormatBytes renders a byte count in a human-readable unit.
func FormatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// FormatDuration renders a duration compactly: sub-minute values in
// seconds, longer ones as minutes and seconds.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	return fmt.Sprintf("%dm%ds", int(secs)/60, int(secs)%60)
}
