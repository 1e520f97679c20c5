package topology

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryankumar/toposcale/internal/executor"
)

// ResourceName is the counting resource every sizing task acquires
const ResourceName = "cpus"

// Status is the terminal state of a run
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusAborted   Status = "aborted"
)

// Outcome describes how a run ended
type Outcome struct {
	Status   Status           `json:"status" yaml:"status"`
	Executed []string         `json:"executed" yaml:"executed"`
	Skipped  []string         `json:"skipped" yaml:"skipped"`
	Summary  executor.Summary `json:"-" yaml:"-"`
}

// Runner sizes a selection of topologies across a radix range.
// Each call to Run builds its own resource pool and scheduler.
type Runner struct {
	// Capacity is the number of CPU slots; tasks run at most this many at a time
	Capacity int

	Logger    *slog.Logger
	Observers []executor.Observer
}

// NewRunner creates a runner with the given pool capacity
func NewRunner(capacity int, logger *slog.Logger, observers ...executor.Observer) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Capacity:  capacity,
		Logger:    logger,
		Observers: observers,
	}
}

// Run creates one task per (topology, radix) pair and runs them all.
// On failure the returned table is nil: partial results are never exposed.
func (r *Runner) Run(ctx context.Context, rng RadixRange, sel Selection) (*ResultTable, Outcome, error) {
	outcome := Outcome{
		Status:   StatusAborted,
		Executed: sel.Names(),
		Skipped:  append([]string(nil), sel.Skipped...),
	}

	if err := rng.Validate(); err != nil {
		return nil, outcome, err
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := executor.NewResourcePool(ResourceName, r.Capacity)
	if err != nil {
		return nil, outcome, err
	}

	sched := executor.NewScheduler(pool, logger, executor.WithObservers(r.Observers...))
	table := newResultTable(rng, sel.Names())

	for _, d := range sel.Topologies {
		series := table.series[d.Name]
		for i, radix := range rng.Radices() {
			task, err := executor.NewTask(fmt.Sprintf("%s-%d", d.Tag, radix), bind(d.Compute, radix), series, i)
			if err != nil {
				return nil, outcome, err
			}
			if err := sched.Submit(task); err != nil {
				return nil, outcome, fmt.Errorf("failed to submit %s: %w", task.Name, err)
			}
		}
	}

	logger.Debug("tasks created",
		"topologies", len(sel.Topologies),
		"skipped", len(sel.Skipped),
		"radices", rng.Len())

	summary, err := sched.RunAll(ctx)
	outcome.Summary = summary
	if err != nil {
		return nil, outcome, err
	}

	outcome.Status = StatusSucceeded
	return table, outcome, nil
}

func bind(compute ComputeFunc, radix int) executor.ComputeFunc {
	return func(ctx context.Context) (int64, error) {
		return compute(ctx, radix)
	}
}
