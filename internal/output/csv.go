package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aryankumar/toposcale/internal/topology"
)

// CSVFormatter writes one row per radix with one column per topology
type CSVFormatter struct {
	options *Options
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(opts *Options) *CSVFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &CSVFormatter{
		options: opts,
	}
}

// Format outputs a single data item as CSV.
// A string slice is written one value per line.
func (f *CSVFormatter) Format(w io.Writer, data interface{}) error {
	cw := csv.NewWriter(w)

	switch v := data.(type) {
	case []string:
		for _, s := range v {
			if err := cw.Write([]string{s}); err != nil {
				return err
			}
		}
	case [][]string:
		if err := cw.WriteAll(v); err != nil {
			return err
		}
	default:
		if err := cw.Write([]string{fmt.Sprintf("%v", v)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatRun writes the header Radix,<names...> followed by one row per radix
func (f *CSVFormatter) FormatRun(w io.Writer, table *topology.ResultTable, _ topology.Outcome) error {
	if table == nil {
		return errNoResults
	}

	cw := csv.NewWriter(w)

	if !f.options.NoHeaders {
		header := append([]string{"Radix"}, table.Names()...)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, row := range table.Rows() {
		record := make([]string, 0, len(row.Sizes)+1)
		record = append(record, strconv.Itoa(row.Radix))
		for _, size := range row.Sizes {
			record = append(record, strconv.FormatInt(size, 10))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for radix %d: %w", row.Radix, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
