package output

import (
	"io"

	"github.com/aryankumar/toposcale/internal/topology"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatRun outputs the run as a RunDocument
func (f *YAMLFormatter) FormatRun(w io.Writer, table *topology.ResultTable, outcome topology.Outcome) error {
	doc, err := NewRunDocument(table, outcome)
	if err != nil {
		return err
	}
	return f.Format(w, doc)
}
