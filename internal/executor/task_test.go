package executor

import (
	"context"
	"strings"
	"sync"
	"testing"
)

func okCompute(v int64) ComputeFunc {
	return func(ctx context.Context) (int64, error) {
		return v, nil
	}
}

func TestSeries(t *testing.T) {
	s := NewSeries(3)

	if s.Len() != 3 {
		t.Fatalf("expected length 3, got %d", s.Len())
	}
	for i, v := range s.Values() {
		if v != 0 {
			t.Errorf("entry %d should start at sentinel 0, got %d", i, v)
		}
	}
	if s.Complete() {
		t.Error("fresh series must not be complete")
	}

	for i := 0; i < 3; i++ {
		if err := s.Set(i, int64(i+10)); err != nil {
			t.Fatalf("Set(%d) failed: %v", i, err)
		}
	}

	if !s.Complete() {
		t.Error("expected series to be complete")
	}
	if got := s.Values(); got[0] != 10 || got[2] != 12 {
		t.Errorf("unexpected values %v", got)
	}
}

func TestSeries_WriteOnce(t *testing.T) {
	s := NewSeries(2)

	if err := s.Set(1, 5); err != nil {
		t.Fatal(err)
	}
	err := s.Set(1, 6)
	if err == nil || !strings.Contains(err.Error(), "already written") {
		t.Fatalf("expected already written error, got %v", err)
	}
	if s.Values()[1] != 5 {
		t.Errorf("second write must not overwrite, got %d", s.Values()[1])
	}

	if err := s.Set(2, 1); err == nil {
		t.Error("expected out of range error")
	}
	if s.Written(-1) || s.Written(0) || !s.Written(1) {
		t.Error("unexpected Written state")
	}
}

func TestSeries_ConcurrentDisjointWrites(t *testing.T) {
	s := NewSeries(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Set(i, int64(i))
		}(i)
	}
	wg.Wait()

	if !s.Complete() {
		t.Fatal("expected every slot written")
	}
	for i, v := range s.Values() {
		if v != int64(i) {
			t.Errorf("slot %d = %d", i, v)
		}
	}
}

func TestNewTask(t *testing.T) {
	series := NewSeries(2)

	tests := []struct {
		name        string
		taskName    string
		compute     ComputeFunc
		series      *Series
		index       int
		errContains string
	}{
		{name: "valid", taskName: "fattree_2l-4", compute: okCompute(8), series: series, index: 1},
		{name: "missing name", compute: okCompute(1), series: series, errContains: "name"},
		{name: "missing compute", taskName: "x", series: series, errContains: "compute function"},
		{name: "missing series", taskName: "x", compute: okCompute(1), errContains: "output series"},
		{name: "index out of range", taskName: "x", compute: okCompute(1), series: series, index: 2, errContains: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.taskName, tt.compute, tt.series, tt.index)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.Slots != 1 {
				t.Errorf("expected 1 slot, got %d", task.Slots)
			}
		})
	}
}
