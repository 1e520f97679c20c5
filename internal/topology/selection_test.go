package topology

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aryankumar/toposcale/internal/util"
	"github.com/google/go-cmp/cmp"
)

var allNames = []string{
	"2L Fat Tree (3)",
	"3L Fat Tree (5)",
	"1D HyperX (2)",
	"2D HyperX (3)",
	"3D HyperX (4)",
	"4D HyperX (5)",
	"Dragonfly (4)",
	"Dragonfly+ (4)",
	"Fat Dragon (4)",
}

func TestCatalog(t *testing.T) {
	catalog := Catalog(Searchers{})

	if diff := cmp.Diff(allNames, Names(catalog)); diff != "" {
		t.Errorf("catalog names mismatch (-want +got):\n%s", diff)
	}

	tags := make(map[string]bool)
	for _, d := range catalog {
		if tags[d.Tag] {
			t.Errorf("duplicate tag %q", d.Tag)
		}
		tags[d.Tag] = true
	}

	// Search-based families fail cleanly without a searcher
	if _, err := catalog[2].Compute(context.Background(), 8); err == nil {
		t.Error("expected error from HyperX without a searcher")
	}
	if _, err := catalog[6].Compute(context.Background(), 8); err == nil {
		t.Error("expected error from Dragonfly without a searcher")
	}
}

func TestCatalog_SearchArguments(t *testing.T) {
	var got [][]string
	record := SearcherFunc(func(ctx context.Context, args []string) (int64, error) {
		got = append(got, args)
		return 1, nil
	})

	catalog := Catalog(Searchers{HyperX: record, Dragonfly: record})
	_, _ = catalog[3].Compute(context.Background(), 12) // 2D HyperX
	_, _ = catalog[6].Compute(context.Background(), 12) // Dragonfly

	want := [][]string{
		{"12", "12", "2", "0.5"},
		{"12", "12", "1", "1", "0.5"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect(t *testing.T) {
	catalog := Catalog(Searchers{})

	tests := []struct {
		name        string
		skip        []string
		wantNames   []string
		wantSkipped []string
	}{
		{
			name:        "no skip keeps everything",
			skip:        nil,
			wantNames:   allNames,
			wantSkipped: []string{},
		},
		{
			name:        "skip keeps catalog order",
			skip:        []string{"Dragonfly (4)", "1D HyperX (2)"},
			wantNames:   []string{"2L Fat Tree (3)", "3L Fat Tree (5)", "2D HyperX (3)", "3D HyperX (4)", "4D HyperX (5)", "Dragonfly+ (4)", "Fat Dragon (4)"},
			wantSkipped: []string{"1D HyperX (2)", "Dragonfly (4)"},
		},
		{
			name:        "repeated skip name",
			skip:        []string{"Fat Dragon (4)", "Fat Dragon (4)"},
			wantNames:   allNames[:8],
			wantSkipped: []string{"Fat Dragon (4)"},
		},
		{
			name:        "skip everything",
			skip:        allNames,
			wantNames:   []string{},
			wantSkipped: allNames,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(catalog, tt.skip)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantNames, sel.Names()); diff != "" {
				t.Errorf("selected names mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSkipped, sel.Skipped); diff != "" {
				t.Errorf("skipped names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_UnknownName(t *testing.T) {
	sel, err := Select(Catalog(Searchers{}), []string{"2L Fat Tree (3)", "Nonexistent Topology"})

	var cfgErr *util.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "skip" || cfgErr.Value != "Nonexistent Topology" {
		t.Errorf("unexpected error fields %+v", cfgErr)
	}
	if len(sel.Topologies) != 0 {
		t.Error("failed selection must not return topologies")
	}
}

func TestSelect_InvalidCatalog(t *testing.T) {
	compute := FatTree("Tree", 2).Compute

	tests := []struct {
		name      string
		catalog   []Descriptor
		wantValue interface{}
		wantMsg   string
	}{
		{
			name:      "duplicate name",
			catalog:   []Descriptor{FatTree("Tree", 2), FatTree("Tree", 3)},
			wantValue: "Tree",
			wantMsg:   "duplicate topology name",
		},
		{
			name:      "duplicate tag",
			catalog:   []Descriptor{FatTree("Small Tree", 2), FatTree("Other Tree", 2)},
			wantValue: "fattree_2l",
			wantMsg:   "duplicate topology tag",
		},
		{
			name:      "missing compute",
			catalog:   []Descriptor{{Name: "broken", Tag: "broken"}},
			wantValue: "broken",
			wantMsg:   "compute function",
		},
		{
			name:      "missing tag",
			catalog:   []Descriptor{{Name: "untagged", Compute: compute}},
			wantValue: "untagged",
			wantMsg:   "tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.catalog, nil)

			var cfgErr *util.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != "topology" || cfgErr.Value != tt.wantValue {
				t.Errorf("unexpected error fields %+v", cfgErr)
			}
			if !strings.Contains(cfgErr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", cfgErr.Message, tt.wantMsg)
			}
			if len(sel.Topologies) != 0 {
				t.Error("failed selection must not return topologies")
			}
		})
	}
}

func TestSelection_TaskCount(t *testing.T) {
	sel, _ := Select(Catalog(Searchers{}), []string{"Dragonfly (4)"})
	if got := sel.TaskCount(RadixRange{Start: 4, Stop: 13}); got != 80 {
		t.Errorf("TaskCount() = %d, want 80", got)
	}
}
