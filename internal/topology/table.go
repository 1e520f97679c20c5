package topology

import (
	"github.com/aryankumar/toposcale/internal/executor"
)

// ResultTable maps each selected topology to its sizes, one per radix.
// Entry i of every sequence belongs to radix Range.Start + i.
type ResultTable struct {
	Range RadixRange

	names  []string
	series map[string]*executor.Series
}

func newResultTable(rng RadixRange, names []string) *ResultTable {
	t := &ResultTable{
		Range:  rng,
		names:  append([]string(nil), names...),
		series: make(map[string]*executor.Series, len(names)),
	}
	for _, name := range names {
		t.series[name] = executor.NewSeries(rng.Len())
	}
	return t
}

// Names returns the topology names in column order
func (t *ResultTable) Names() []string {
	return append([]string(nil), t.names...)
}

// Sizes returns the sizes for one topology
func (t *ResultTable) Sizes(name string) ([]int64, bool) {
	s, ok := t.series[name]
	if !ok {
		return nil, false
	}
	return s.Values(), true
}

// Complete reports whether every entry of every topology has been written
func (t *ResultTable) Complete() bool {
	for _, s := range t.series {
		if !s.Complete() {
			return false
		}
	}
	return true
}

// Row is one radix with the size of every topology, in column order
type Row struct {
	Radix int     `json:"radix" yaml:"radix"`
	Sizes []int64 `json:"sizes" yaml:"sizes"`
}

// Rows returns the table radix by radix
func (t *ResultTable) Rows() []Row {
	columns := make([][]int64, len(t.names))
	for i, name := range t.names {
		columns[i] = t.series[name].Values()
	}

	rows := make([]Row, t.Range.Len())
	for i := range rows {
		sizes := make([]int64, len(columns))
		for c := range columns {
			sizes[c] = columns[c][i]
		}
		rows[i] = Row{Radix: t.Range.Radix(i), Sizes: sizes}
	}
	return rows
}

// Columns returns name -> sizes for every topology
func (t *ResultTable) Columns() map[string][]int64 {
	out := make(map[string][]int64, len(t.names))
	for _, name := range t.names {
		out[name] = t.series[name].Values()
	}
	return out
}
