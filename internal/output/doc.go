// Package output renders toposcale results.
//
// A successful run produces a topology.ResultTable: one column per selected
// topology and one row per radix. Formatters write it as a borderless table,
// CSV, JSON or YAML.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithNoColor(true))
//	formatter.FormatRun(os.Stdout, table, outcome)
//
// Format writes arbitrary data, such as the list of selected topology names.
//
// # Formats
//
// Table: kubectl-style borderless table with a RADIX column, followed by a
// summary line. WithWide adds elapsed time and the skipped topologies.
//
// CSV: header Radix,<names...> then one row per radix. WithNoHeaders drops
// the header row.
//
// JSON and YAML: a RunDocument with the run status, the radix bounds, the
// executed and skipped names, and the rows.
//
// # Color Support
//
// Colors are enabled only for terminals and can be disabled with
// WithNoColor(true). CSV, JSON and YAML output is never colored.
package output
