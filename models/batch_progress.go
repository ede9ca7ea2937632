package models

import (
	"fmt"
	"time"
)

// BatchProgress reports how far a batch operation has advanced.
type BatchProgress struct {
	Completed int    // Items finished (successfully or not)
	Failed    int    // Items that failed
	Total     int    // Items scheduled
	Current   string // Name of the item that just finished

	Progress float64 // Percentage complete (0-100)

	State     ProgressState
	StartTime time.Time
	UpdatedAt time.Time
}

// ProgressState represents the current state of a batch operation.
type ProgressState string

const (
	ProgressStateQueued    ProgressState = "queued"    // Waiting to start
	ProgressStateRunning   ProgressState = "running"   // Items in flight
	ProgressStateCompleted ProgressState = "completed" // Every item processed
	ProgressStateFailed    ProgressState = "failed"    // Aborted on error
	ProgressStateCancelled ProgressState = "cancelled" // Context cancelled
)

// ProgressCallback receives progress updates during batch operations.
type ProgressCallback func(progress *BatchProgress)

// NewBatchProgress creates a new progress tracker for total items.
func NewBatchProgress(total int) *BatchProgress {
	now := time.Now()
	return &BatchProgress{
		Total:     total,
		State:     ProgressStateQueued,
		StartTime: now,
		UpdatedAt: now,
	}
}

// Advance records one finished item and recomputes the percentage.
func (bp *BatchProgress) Advance(name string, failed bool) {
	bp.Completed++
	if failed {
		bp.Failed++
	}
	bp.Current = name
	bp.State = ProgressStateRunning
	if bp.Total > 0 {
		bp.Progress = float64(bp.Completed) / float64(bp.Total) * 100
		if bp.Progress > 100 {
			bp.Progress = 100
		}
	}
	if bp.Completed >= bp.Total {
		bp.State = ProgressStateCompleted
	}
	bp.UpdatedAt = time.Now()
}

// EstimatedTimeRemaining extrapolates the remaining time from the pace so far.
func (bp *BatchProgress) EstimatedTimeRemaining() time.Duration {
	if bp.Progress <= 0 {
		return 0
	}

	elapsed := bp.UpdatedAt.Sub(bp.StartTime)
	totalEstimated := time.Duration(float64(elapsed) / (bp.Progress / 100))
	remaining := totalEstimated - elapsed

	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatSummary returns a human-readable summary of the progress.
func (bp *BatchProgress) FormatSummary() string {
	return fmt.Sprintf(
		"Progress: %d/%d (%.1f%%) | Failed: %d | ETA: %s",
		bp.Completed,
		bp.Total,
		bp.Progress,
		bp.Failed,
		formatDuration(bp.EstimatedTimeRemaining()),
	)
}

// formatDuration converts a duration to a human-readable string
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "calculating..."
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	seconds = seconds % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}
