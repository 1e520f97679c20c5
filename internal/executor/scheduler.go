package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/toposcale/internal/util"
	"github.com/eapache/queue"
)

// Scheduler drains a FIFO queue of tasks, running each one on its own
// goroutine once the ResourcePool grants its slots.
//
// The first task failure aborts the run: nothing further is dispatched,
// tasks already running finish normally, and tasks still queued are dropped.
type Scheduler struct {
	pool      *ResourcePool
	logger    *slog.Logger
	observers []Observer

	// mu protects everything below up to wake
	mu       sync.Mutex
	ready    *queue.Queue
	names    map[string]struct{}
	slots    map[slotKey]string
	inFlight int
	dropped  int
	records  []Record
	cancel   error
	finished bool

	// wake is signalled on submit and task completion
	wake chan struct{}

	aborted atomic.Bool
	running atomic.Bool
	active  atomic.Int32
	peak    atomic.Int32
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithObservers registers lifecycle observers
func WithObservers(observers ...Observer) Option {
	return func(s *Scheduler) {
		for _, o := range observers {
			if o != nil {
				s.observers = append(s.observers, o)
			}
		}
	}
}

// NewScheduler creates a scheduler bound to pool
// A scheduler runs once; build a new one (and pool) for each run
func NewScheduler(pool *ResourcePool, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		pool:   pool,
		logger: logger,
		ready:  queue.New(),
		names:  make(map[string]struct{}),
		slots:  make(map[slotKey]string),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit queues a task. It may be called before RunAll or while it runs,
// including from inside a running task.
//
// Submit rejects tasks with a duplicate name, tasks targeting a slot another
// task already owns, and tasks needing more resource units than the pool has.
func (s *Scheduler) Submit(task Task) error {
	if err := task.validate(); err != nil {
		return err
	}

	if err := s.pool.Check(task.slots()); err != nil {
		return util.WrapTaskError(task.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return fmt.Errorf("scheduler has finished, cannot submit task %q", task.Name)
	}

	if _, dup := s.names[task.Name]; dup {
		return fmt.Errorf("duplicate task name %q", task.Name)
	}

	key := slotKey{series: task.Slot.Series, index: task.Slot.Index}
	if owner, dup := s.slots[key]; dup {
		return fmt.Errorf("task %q targets slot %d already owned by task %q", task.Name, task.Slot.Index, owner)
	}

	s.names[task.Name] = struct{}{}
	s.slots[key] = task.Name
	s.ready.Add(task)
	s.signal()

	s.logger.Debug("task submitted", "task", task.Name, "queued", s.ready.Length())
	return nil
}

// RunAll dispatches queued tasks until the queue is empty and nothing is in
// flight, or until the run aborts. It returns a *util.SchedulingError iff
// any task failed or ctx was cancelled.
func (s *Scheduler) RunAll(ctx context.Context) (Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Summary{}, fmt.Errorf("scheduler is already running")
	}
	defer s.running.Store(false)

	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return Summary{}, fmt.Errorf("scheduler has already run")
	}
	queued := s.ready.Length()
	s.mu.Unlock()

	s.logger.Info("starting task execution",
		"resource", s.pool.Name(),
		"capacity", s.pool.Capacity(),
		"tasks", queued)

	startTime := time.Now()
	var wg sync.WaitGroup

	for {
		if err := ctx.Err(); err != nil {
			s.abortCancelled(err)
		}

		task, ok, done := s.next()
		if done {
			break
		}
		if !ok {
			// Queue is empty but tasks are in flight and may submit more
			select {
			case <-s.wake:
			case <-ctx.Done():
			}
			continue
		}

		if err := s.pool.Acquire(ctx, task.slots()); err != nil {
			s.abortCancelled(err)
			s.drop(task)
			continue
		}

		// A failure may have been observed while this task waited for a slot
		if s.aborted.Load() {
			s.releaseSlots(task)
			s.drop(task)
			continue
		}

		wg.Add(1)
		go s.execute(ctx, task, &wg)
	}

	wg.Wait()

	// Searches killed by a cancelled context may report first
	if s.aborted.Load() {
		if err := ctx.Err(); err != nil {
			s.abortCancelled(err)
		}
	}

	s.mu.Lock()
	notStarted := s.dropped
	for s.ready.Length() > 0 {
		s.ready.Remove()
		notStarted++
	}
	s.finished = true
	records := make([]Record, len(s.records))
	copy(records, s.records)
	cancelErr := s.cancel
	s.mu.Unlock()

	summary := Summarize(records, notStarted, int(s.peak.Load()), time.Since(startTime))

	s.logger.Info("task execution completed",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"not_started", summary.NotStarted,
		"duration", summary.Duration)

	s.notify(func(o Observer) { o.RunFinished(summary) })

	if !s.aborted.Load() {
		return summary, nil
	}

	schedErr := &util.SchedulingError{NotStarted: notStarted}
	for _, r := range FilterFailed(records) {
		schedErr.Failures.Add(r.Error)
	}
	if cancelErr != nil {
		schedErr.Failures.Add(fmt.Errorf("%w: %v", util.ErrCancelled, cancelErr))
	}
	return summary, schedErr
}

// next pops the next task and counts it as in flight.
// ok is false when the queue is empty but the run is not over;
// done is true once the run is aborted or nothing is left anywhere.
func (s *Scheduler) next() (task Task, ok bool, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aborted.Load() {
		return Task{}, false, true
	}

	if s.ready.Length() > 0 {
		task = s.ready.Remove().(Task)
		s.inFlight++
		return task, true, false
	}

	if s.inFlight == 0 {
		s.finished = true
		return Task{}, false, true
	}

	return Task{}, false, false
}

// execute runs one task while it holds its resource slots
func (s *Scheduler) execute(ctx context.Context, task Task, wg *sync.WaitGroup) {
	defer wg.Done()

	active := s.active.Add(1)
	for {
		peak := s.peak.Load()
		if active <= peak || s.peak.CompareAndSwap(peak, active) {
			break
		}
	}

	s.logger.Debug("executing task", "task", task.Name, "active", active)
	s.notify(func(o Observer) { o.TaskStarted(task.Name) })

	startTime := time.Now()
	value, err := s.compute(ctx, task)
	if err == nil {
		err = task.Slot.Series.Set(task.Slot.Index, value)
	}
	duration := time.Since(startTime)

	s.active.Add(-1)

	if err != nil {
		err = util.WrapTaskError(task.Name, err)
		// Set before the slot is released so no waiting task slips through
		s.aborted.Store(true)
	}

	s.releaseSlots(task)

	if err != nil {
		s.logger.Warn("task failed", "task", task.Name, "error", err, "duration", duration)
		s.notify(func(o Observer) { o.TaskFailed(task.Name, err) })
	} else {
		s.logger.Debug("task succeeded", "task", task.Name, "value", value, "duration", duration)
		s.notify(func(o Observer) { o.TaskFinished(task.Name, duration) })
	}

	s.mu.Lock()
	s.records = append(s.records, Record{Task: task.Name, Error: err, Duration: duration})
	s.inFlight--
	s.signal()
	s.mu.Unlock()
}

// compute calls the task callback, turning a panic into an error
func (s *Scheduler) compute(ctx context.Context, task Task) (value int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task.Compute(ctx)
}

func (s *Scheduler) releaseSlots(task Task) {
	if err := s.pool.Release(task.slots()); err != nil {
		s.logger.Error("failed to release resource", "task", task.Name, "error", err)
	}
}

// drop accounts for a popped task that was never started
func (s *Scheduler) drop(task Task) {
	s.mu.Lock()
	s.inFlight--
	s.dropped++
	s.mu.Unlock()
	s.logger.Debug("task dropped", "task", task.Name)
}

func (s *Scheduler) abortCancelled(err error) {
	s.mu.Lock()
	if s.cancel == nil {
		s.cancel = err
	}
	s.mu.Unlock()
	s.aborted.Store(true)
}

// signal wakes the dispatch loop without blocking
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// notify delivers an event to every observer, isolating panics
func (s *Scheduler) notify(fn func(Observer)) {
	for _, o := range s.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("observer panicked", "panic", r)
				}
			}()
			fn(o)
		}()
	}
}

// TaskCount returns the number of tasks still queued
func (s *Scheduler) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready.Length()
}

// IsRunning returns true while RunAll is executing
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// IsAborted returns true once a failure or cancellation has stopped dispatch
func (s *Scheduler) IsAborted() bool {
	return s.aborted.Load()
}
