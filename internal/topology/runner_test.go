package topology

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aryankumar/toposcale/internal/executor"
	"github.com/aryankumar/toposcale/internal/util"
	"github.com/google/go-cmp/cmp"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSearcher returns radix * factor, deterministic and subprocess-free
func stubSearcher(factor int64) Searcher {
	return SearcherFunc(func(ctx context.Context, args []string) (int64, error) {
		radix, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, err
		}
		return radix * factor, nil
	})
}

func stubCatalog() []Descriptor {
	return Catalog(Searchers{HyperX: stubSearcher(100), Dragonfly: stubSearcher(1000)})
}

func TestRunner_Run(t *testing.T) {
	rng, _ := NewRadixRange(4, 6)
	sel, err := Select(stubCatalog(), nil)
	if err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(3, discardLogger())
	table, outcome, err := runner.Run(context.Background(), rng, sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Status != StatusSucceeded {
		t.Errorf("expected succeeded, got %s", outcome.Status)
	}
	if outcome.Summary.Total != 27 || outcome.Summary.Succeeded != 27 {
		t.Errorf("unexpected summary %s", outcome.Summary)
	}
	if !table.Complete() {
		t.Fatal("every entry should be written")
	}

	for _, name := range table.Names() {
		sizes, ok := table.Sizes(name)
		if !ok {
			t.Fatalf("missing sizes for %s", name)
		}
		if len(sizes) != rng.Len() {
			t.Errorf("%s has %d entries, want %d", name, len(sizes), rng.Len())
		}
	}

	want := map[string][]int64{
		"2L Fat Tree (3)": {8, 10, 18},
		"3L Fat Tree (5)": {16, 30, 54},
		"1D HyperX (2)":   {400, 500, 600},
		"2D HyperX (3)":   {400, 500, 600},
		"3D HyperX (4)":   {400, 500, 600},
		"4D HyperX (5)":   {400, 500, 600},
		"Dragonfly (4)":   {4000, 5000, 6000},
		"Dragonfly+ (4)":  {20, 42, 90},
		"Fat Dragon (4)":  {12, 18, 36},
	}
	if diff := cmp.Diff(want, table.Columns()); diff != "" {
		t.Errorf("result table mismatch (-want +got):\n%s", diff)
	}

	rows := table.Rows()
	if len(rows) != 3 || rows[0].Radix != 4 || rows[2].Radix != 6 {
		t.Fatalf("unexpected rows %v", rows)
	}
	if rows[1].Sizes[0] != 10 || rows[1].Sizes[8] != 18 {
		t.Errorf("row for radix 5 has wrong column order: %v", rows[1].Sizes)
	}
}

func TestRunner_Idempotent(t *testing.T) {
	rng, _ := NewRadixRange(2, 12)
	sel, _ := Select(stubCatalog(), []string{"3D HyperX (4)"})

	runner := NewRunner(4, discardLogger())
	first, _, err := runner.Run(context.Background(), rng, sel)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := runner.Run(context.Background(), rng, sel)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(first.Rows(), second.Rows()); diff != "" {
		t.Errorf("repeated runs differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Names(), second.Names()); diff != "" {
		t.Errorf("column order differs:\n%s", diff)
	}
}

func TestRunner_SkippedOutcome(t *testing.T) {
	rng, _ := NewRadixRange(8, 8)
	sel, _ := Select(stubCatalog(), []string{"Dragonfly (4)", "Fat Dragon (4)"})

	table, outcome, err := NewRunner(2, discardLogger()).Run(context.Background(), rng, sel)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"Dragonfly (4)", "Fat Dragon (4)"}, outcome.Skipped); diff != "" {
		t.Errorf("skipped mismatch:\n%s", diff)
	}
	if len(outcome.Executed) != 7 || len(table.Names()) != 7 {
		t.Errorf("expected 7 executed topologies, got %d", len(outcome.Executed))
	}
	if _, ok := table.Sizes("Dragonfly (4)"); ok {
		t.Error("skipped topology must not appear in the table")
	}
}

func TestRunner_SearchFailureAborts(t *testing.T) {
	var dragonflyCalls atomic.Int32
	failing := SearcherFunc(func(ctx context.Context, args []string) (int64, error) {
		return 0, &util.ExternalProcedureError{Procedure: "hyperx_flat_search.py", Args: args, Err: errors.New("exit status 1")}
	})
	counting := SearcherFunc(func(ctx context.Context, args []string) (int64, error) {
		dragonflyCalls.Add(1)
		return 1, nil
	})

	rng, _ := NewRadixRange(4, 10)
	sel, _ := Select(Catalog(Searchers{HyperX: failing, Dragonfly: counting}), nil)

	// One slot makes dispatch strictly sequential in catalog order
	table, outcome, err := NewRunner(1, discardLogger()).Run(context.Background(), rng, sel)

	if table != nil {
		t.Error("failed run must not expose a result table")
	}
	if !errors.Is(err, util.ErrScheduling) || !errors.Is(err, util.ErrExternalProcedure) {
		t.Fatalf("expected scheduling error wrapping the external failure, got %v", err)
	}

	var taskErr *util.TaskError
	if !errors.As(err, &taskErr) || taskErr.Task != "hyperx_1d-4" {
		t.Errorf("expected first HyperX task to fail, got %v", err)
	}

	if outcome.Status != StatusAborted {
		t.Errorf("expected aborted, got %s", outcome.Status)
	}
	if outcome.Summary.Succeeded != 14 || outcome.Summary.Failed != 1 {
		t.Errorf("unexpected summary %s", outcome.Summary)
	}
	if dragonflyCalls.Load() != 0 {
		t.Errorf("no task after the failure should run, dragonfly ran %d times", dragonflyCalls.Load())
	}
}

func TestRunner_InvalidCapacity(t *testing.T) {
	rng, _ := NewRadixRange(4, 5)
	sel, _ := Select(stubCatalog(), nil)

	_, _, err := NewRunner(0, discardLogger()).Run(context.Background(), rng, sel)
	if !errors.Is(err, util.ErrResource) {
		t.Fatalf("expected ErrResource, got %v", err)
	}
}

func TestRunner_InvalidRange(t *testing.T) {
	sel, _ := Select(stubCatalog(), nil)

	_, _, err := NewRunner(2, discardLogger()).Run(context.Background(), RadixRange{Start: 1, Stop: 4}, sel)
	if !util.IsConfigError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunner_ObserversReceiveEvents(t *testing.T) {
	var finished atomic.Int32
	obs := &countingObserver{finished: &finished}

	rng, _ := NewRadixRange(4, 7)
	sel, _ := Select(stubCatalog(), nil)

	if _, _, err := NewRunner(2, discardLogger(), obs).Run(context.Background(), rng, sel); err != nil {
		t.Fatal(err)
	}
	if int(finished.Load()) != sel.TaskCount(rng) {
		t.Errorf("expected %d finished events, got %d", sel.TaskCount(rng), finished.Load())
	}
}

type countingObserver struct {
	finished *atomic.Int32
}

func (o *countingObserver) TaskStarted(string) {}

func (o *countingObserver) TaskFinished(string, time.Duration) { o.finished.Add(1) }

func (o *countingObserver) TaskFailed(string, error) {}

func (o *countingObserver) RunFinished(executor.Summary) {}
