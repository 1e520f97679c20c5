package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/toposcale/internal/topology"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatRun outputs the run as a RunDocument
func (f *JSONFormatter) FormatRun(w io.Writer, table *topology.ResultTable, outcome topology.Outcome) error {
	doc, err := NewRunDocument(table, outcome)
	if err != nil {
		return err
	}
	return f.Format(w, doc)
}
