package output

import (
	"errors"
	"io"

	"github.com/aryankumar/toposcale/internal/topology"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a borderless table
	FormatTable Format = "table"
	// FormatCSV outputs data as comma-separated values
	FormatCSV Format = "csv"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatRun outputs the result table of a successful run
	FormatRun(w io.Writer, table *topology.ResultTable, outcome topology.Outcome) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table and CSV headers
	NoHeaders bool

	// Wide adds the run summary below the table
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatCSV:
		return NewCSVFormatter(options)
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// RunDocument is the structured form of a run used by JSON and YAML output.
// Sizes in every row follow the order of Executed.
type RunDocument struct {
	Status   topology.Status `json:"status" yaml:"status"`
	Start    int             `json:"start" yaml:"start"`
	Stop     int             `json:"stop" yaml:"stop"`
	Executed []string        `json:"executed" yaml:"executed"`
	Skipped  []string        `json:"skipped" yaml:"skipped"`
	Rows     []topology.Row  `json:"rows" yaml:"rows"`
}

// NewRunDocument builds the structured form of a run
func NewRunDocument(table *topology.ResultTable, outcome topology.Outcome) (RunDocument, error) {
	if table == nil {
		return RunDocument{}, errNoResults
	}

	skipped := outcome.Skipped
	if skipped == nil {
		skipped = []string{}
	}

	return RunDocument{
		Status:   outcome.Status,
		Start:    table.Range.Start,
		Stop:     table.Range.Stop,
		Executed: table.Names(),
		Skipped:  skipped,
		Rows:     table.Rows(),
	}, nil
}

var errNoResults = errors.New("no results to format: the run did not complete")
