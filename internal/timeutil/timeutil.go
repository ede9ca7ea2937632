// Package timeutil provides time formatting utilities for commands and reports.
package timeutil

import "fmt"

// FormatSeconds renders a media duration as HH:MM:SS.ss, the clock format
// ffprobe reports. Fractions are rounded to hundredths.
//
//	FormatSeconds(90)     // "00:01:30.00"
//	FormatSeconds(3661)   // "01:01:01.00"
//	FormatSeconds(1.994)  // "00:00:01.99"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// FormatDuration renders a duration in seconds for reports, dropping the
// hour component when it is zero.
//
// Example:
//
//	FormatDuration(95)    // "1m 35s"
//	FormatDuration(5400)  // "1h 30m 0s"
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
