package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/aryankumar/toposcale/internal/topology"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []string:
		for _, s := range v {
			fmt.Fprintln(w, s)
		}
		return nil
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatRun outputs one row per radix and one column per topology,
// followed by a summary line
func (f *TableFormatter) FormatRun(w io.Writer, results *topology.ResultTable, outcome topology.Outcome) error {
	if results == nil {
		return errNoResults
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	names := results.Names()
	if !f.options.NoHeaders {
		headers := append([]string{"RADIX"}, names...)
		if !colors.Disabled {
			for i, h := range headers {
				headers[i] = colors.Header(h)
			}
		}
		table.SetHeader(headers)
	}

	alignments := make([]int, len(names)+1)
	for i := range alignments {
		alignments[i] = tablewriter.ALIGN_RIGHT
	}
	table.SetColumnAlignment(alignments)

	for _, row := range results.Rows() {
		table.Append(f.formatRow(row, colors))
	}

	table.Render()

	f.printSummary(w, results, outcome, colors)
	return nil
}

// formatRow formats a radix and its sizes as a table row
func (f *TableFormatter) formatRow(row topology.Row, colors *ColorScheme) []string {
	radix := strconv.Itoa(row.Radix)
	if !colors.Disabled {
		radix = colors.Name(radix)
	}

	cells := make([]string, 0, len(row.Sizes)+1)
	cells = append(cells, radix)
	for _, size := range row.Sizes {
		cells = append(cells, strconv.FormatInt(size, 10))
	}
	return cells
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints the run status with the executed and skipped topologies
func (f *TableFormatter) printSummary(w io.Writer, results *topology.ResultTable, outcome topology.Outcome, colors *ColorScheme) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	statusText := string(outcome.Status)
	if !colors.Disabled {
		statusText = colors.StatusColor(outcome.Status == topology.StatusAborted)("%s", statusText)
	}

	tasks := len(results.Names()) * results.Range.Len()
	successText := fmt.Sprintf("%d sizes computed", tasks)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}

	rangeText := fmt.Sprintf("radix %d..%d", results.Range.Start, results.Range.Stop)

	skippedText := fmt.Sprintf("%d skipped", len(outcome.Skipped))
	if !colors.Disabled && len(outcome.Skipped) > 0 {
		skippedText = colors.Warning(skippedText)
	}

	fmt.Fprintf(w, "%s, %s, %s, %s\n", statusText, successText, rangeText, skippedText)

	if f.options.Wide && outcome.Summary.Total > 0 {
		tasksText := fmt.Sprintf("%s, max_concurrent=%d", outcome.Summary, outcome.Summary.MaxConcurrent)
		if !colors.Disabled {
			tasksText = colors.Duration(tasksText)
		}
		fmt.Fprintf(w, "Tasks: %s\n", tasksText)
	}

	if f.options.Wide && len(outcome.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped: %s\n", strings.Join(outcome.Skipped, ", "))
	}
}
