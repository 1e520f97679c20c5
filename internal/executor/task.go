package executor

import (
	"context"
	"fmt"
	"sync/atomic"
)

// ComputeFunc produces the value a task writes into its slot
type ComputeFunc func(ctx context.Context) (int64, error)

// Series is a fixed-length sequence of results, pre-sized before a run.
// Every entry starts at 0 and may be written exactly once.
type Series struct {
	values  []int64
	written []atomic.Bool
}

// NewSeries creates a series of length n with all entries at the zero sentinel
func NewSeries(n int) *Series {
	if n < 0 {
		n = 0
	}
	return &Series{
		values:  make([]int64, n),
		written: make([]atomic.Bool, n),
	}
}

// Len returns the number of entries
func (s *Series) Len() int {
	return len(s.values)
}

// Set writes v at index i
// A second write to the same index is rejected
func (s *Series) Set(i int, v int64) error {
	if i < 0 || i >= len(s.values) {
		return fmt.Errorf("index %d out of range [0, %d)", i, len(s.values))
	}
	if !s.written[i].CompareAndSwap(false, true) {
		return fmt.Errorf("index %d already written", i)
	}
	s.values[i] = v
	return nil
}

// Written reports whether index i has been written
func (s *Series) Written(i int) bool {
	if i < 0 || i >= len(s.values) {
		return false
	}
	return s.written[i].Load()
}

// Complete reports whether every entry has been written
func (s *Series) Complete() bool {
	for i := range s.written {
		if !s.written[i].Load() {
			return false
		}
	}
	return true
}

// Values returns a copy of the entries
// Only meaningful once the run that owns the series has returned
func (s *Series) Values() []int64 {
	out := make([]int64, len(s.values))
	copy(out, s.values)
	return out
}

// Slot designates one entry of one series as a task's output
type Slot struct {
	Series *Series
	Index  int
}

// Task is a single unit of work: a compute callback and the slot it owns
type Task struct {
	// Name identifies the task in logs and observer events
	Name string

	// Slots is the number of resource units the task holds while running
	// Zero means 1
	Slots int

	// Compute produces the value written into Slot
	Compute ComputeFunc

	// Slot is the destination of the computed value
	Slot Slot
}

// NewTask creates a task that needs a single resource unit
func NewTask(name string, compute ComputeFunc, series *Series, index int) (Task, error) {
	t := Task{
		Name:    name,
		Slots:   1,
		Compute: compute,
		Slot:    Slot{Series: series, Index: index},
	}
	if err := t.validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (t *Task) validate() error {
	if t.Name == "" {
		return fmt.Errorf("task must have a name")
	}
	if t.Compute == nil {
		return fmt.Errorf("task %q must have a compute function", t.Name)
	}
	if t.Slot.Series == nil {
		return fmt.Errorf("task %q must have an output series", t.Name)
	}
	if t.Slot.Index < 0 || t.Slot.Index >= t.Slot.Series.Len() {
		return fmt.Errorf("task %q output index %d out of range [0, %d)", t.Name, t.Slot.Index, t.Slot.Series.Len())
	}
	if t.Slots < 0 {
		return fmt.Errorf("task %q has negative slot requirement", t.Name)
	}
	return nil
}

func (t *Task) slots() int {
	if t.Slots == 0 {
		return 1
	}
	return t.Slots
}

type slotKey struct {
	series *Series
	index  int
}
