package executor

import (
	"fmt"
	"strings"
	"time"
)

// Record is the outcome of one dispatched task
type Record struct {
	// Task is the task name
	Task string

	// Error is non-nil if the compute callback or the slot write failed
	Error error

	// Duration is how long the task held its resource slot
	Duration time.Duration
}

// CountSucceeded returns the number of records without an error
func CountSucceeded(records []Record) int {
	count := 0
	for _, r := range records {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of records with an error
func CountFailed(records []Record) int {
	return len(records) - CountSucceeded(records)
}

// FilterFailed returns only the failed records
func FilterFailed(records []Record) []Record {
	filtered := make([]Record, 0)
	for _, r := range records {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AverageDuration calculates the average duration of all records
func AverageDuration(records []Record) time.Duration {
	if len(records) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range records {
		total += r.Duration
	}

	return total / time.Duration(len(records))
}

// MaxDuration returns the longest task duration
func MaxDuration(records []Record) time.Duration {
	var max time.Duration
	for _, r := range records {
		if r.Duration > max {
			max = r.Duration
		}
	}
	return max
}

// Summary describes a finished run
type Summary struct {
	// Total is the number of submitted tasks
	Total int

	Succeeded int
	Failed    int

	// NotStarted counts tasks dropped from the queue after an abort
	NotStarted int

	// MaxConcurrent is the peak number of tasks running at once
	MaxConcurrent int

	AvgDuration time.Duration
	MaxDuration time.Duration

	// Duration is the wall time of the whole run
	Duration time.Duration
}

// Summarize builds a summary from dispatched records
func Summarize(records []Record, notStarted, maxConcurrent int, elapsed time.Duration) Summary {
	return Summary{
		Total:         len(records) + notStarted,
		Succeeded:     CountSucceeded(records),
		Failed:        CountFailed(records),
		NotStarted:    notStarted,
		MaxConcurrent: maxConcurrent,
		AvgDuration:   AverageDuration(records),
		MaxDuration:   MaxDuration(records),
		Duration:      elapsed,
	}
}

// Aborted reports whether the run stopped before every task succeeded
func (s Summary) Aborted() bool {
	return s.Failed > 0 || s.NotStarted > 0
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Succeeded: %d, ", s.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.NotStarted > 0 {
		sb.WriteString(fmt.Sprintf(", Not started: %d", s.NotStarted))
	}

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Elapsed: %s", s.Duration.Round(time.Millisecond)))
	}

	return sb.String()
}
