package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Observer receives task lifecycle events from the Scheduler.
// Implementations must be safe for concurrent use: events for different
// tasks arrive from different worker goroutines. Observers cannot affect
// scheduling; a panicking observer is recovered and logged.
type Observer interface {
	TaskStarted(name string)
	TaskFinished(name string, d time.Duration)
	TaskFailed(name string, err error)
	RunFinished(summary Summary)
}

// LogObserver reports events through a structured logger.
// Per-task events are logged only when Verbose is set.
type LogObserver struct {
	Logger  *slog.Logger
	Verbose bool
}

// NewLogObserver creates a summary-only log observer
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) TaskStarted(name string) {
	if o.Verbose {
		o.Logger.Info("task started", "task", name)
	}
}

func (o *LogObserver) TaskFinished(name string, d time.Duration) {
	if o.Verbose {
		o.Logger.Info("task finished", "task", name, "duration", d)
	}
}

// TaskFailed is always logged
func (o *LogObserver) TaskFailed(name string, err error) {
	o.Logger.Error("task failed", "task", name, "error", err)
}

func (o *LogObserver) RunFinished(summary Summary) {
	level := slog.LevelInfo
	if summary.Aborted() {
		level = slog.LevelWarn
	}
	o.Logger.Log(context.Background(), level, "run summary",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"not_started", summary.NotStarted,
		"max_concurrent", summary.MaxConcurrent,
		"elapsed", summary.Duration.Round(time.Millisecond))
}

// ProgressObserver renders a terminal progress bar advanced on every
// finished or failed task.
type ProgressObserver struct {
	bar *progressbar.ProgressBar
	w   io.Writer
}

// NewProgressObserver creates a progress bar for total tasks written to w
func NewProgressObserver(w io.Writer, total int) *ProgressObserver {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Sizing topologies"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("tasks"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &ProgressObserver{bar: bar, w: w}
}

func (o *ProgressObserver) TaskStarted(string) {}

func (o *ProgressObserver) TaskFinished(string, time.Duration) {
	_ = o.bar.Add(1)
}

func (o *ProgressObserver) TaskFailed(name string, _ error) {
	o.bar.Describe(fmt.Sprintf("Failed: %s", name))
	_ = o.bar.Add(1)
}

// RunFinished completes the bar on success and leaves it where it stopped on abort
func (o *ProgressObserver) RunFinished(summary Summary) {
	if !summary.Aborted() {
		_ = o.bar.Finish()
	}
	fmt.Fprintln(o.w)
}
