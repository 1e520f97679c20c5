// Package executor provides the bounded, fail-fast task engine used to size topologies.
//
// A run is built from three pieces constructed per run, with no global state:
//
//   - ResourcePool: a named counting resource (CPU slots) every task acquires before running
//   - Task: a compute callback plus the Slot (series, index) it writes exactly once
//   - Scheduler: a FIFO dispatcher that runs tasks in parallel, bounded by the pool
//
// # Basic Usage
//
//	pool, err := executor.NewResourcePool("cpus", runtime.NumCPU())
//	if err != nil {
//	    return err
//	}
//	sched := executor.NewScheduler(pool, logger, executor.WithObservers(executor.NewLogObserver(logger)))
//
//	series := executor.NewSeries(len(radices))
//	for i, radix := range radices {
//	    task, err := executor.NewTask(fmt.Sprintf("fattree_2l-%d", radix), compute(radix), series, i)
//	    if err != nil {
//	        return err
//	    }
//	    if err := sched.Submit(task); err != nil {
//	        return err
//	    }
//	}
//
//	summary, err := sched.RunAll(ctx)
//
// # Failure Semantics
//
// The first failing task aborts the run. No task is dispatched after the
// failure is observed, tasks already running finish and keep the slots
// they wrote, and tasks still queued are dropped and counted as NotStarted.
// RunAll then returns a *util.SchedulingError aggregating every task error.
// Failed tasks are never retried.
//
// # Concurrency Guarantees
//
//   - At most pool.Capacity() slots are held at any time
//   - Each (series, index) pair is owned by one task, checked at Submit
//   - Each slot is written at most once, checked at write time
//   - Observer events are delivered from worker goroutines; observer panics are recovered
package executor
