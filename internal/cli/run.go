package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aryankumar/toposcale/internal/config"
	"github.com/aryankumar/toposcale/internal/executor"
	"github.com/aryankumar/toposcale/internal/output"
	"github.com/aryankumar/toposcale/internal/sysinfo"
	"github.com/aryankumar/toposcale/internal/topology"
	"github.com/aryankumar/toposcale/internal/util"
	"github.com/spf13/cobra"
)

type runOptions struct {
	skip      []string
	csvFile   string
	wide      bool
	noHeaders bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run START STOP",
		Short: "Size topologies over a radix range",
		Long: `Compute the endpoint count of every selected topology for each radix
from START to STOP inclusive.

One task is created per topology and radix. Tasks run in parallel, at most
one per CPU. The first failing task aborts the run: tasks already running
finish, queued tasks are dropped and no results are printed.

HyperX and Dragonfly sizes come from external search procedures configured
under search.hyperx and search.dragonfly.`,
		Example: `  # Size every topology for radix 4 to 64
  toposcale run 4 64

  # Skip the external searches
  toposcale run 4 64 --skip "Dragonfly (4)" --skip "1D HyperX (2)"

  # Write CSV to a file and JSON to stdout
  toposcale run 8 32 --csv sizes.csv -o json

  # Limit to 4 concurrent tasks with a progress bar
  toposcale run 4 128 --cpus 4 --progress`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSizing(cmd, g, o, args)
		},
	}

	cmd.Flags().StringArrayVar(&o.skip, "skip", nil, "topology to skip, by name (repeatable)")
	cmd.Flags().StringVar(&o.csvFile, "csv", "", "also write the results as CSV to this file")
	cmd.Flags().Bool("progress", false, "show a progress bar on a terminal")
	cmd.Flags().Float64("spawn-rate", 0, "maximum search processes started per second (0 for no limit)")
	cmd.Flags().BoolVar(&o.wide, "wide", false, "show timing and skipped topologies below the table")
	cmd.Flags().BoolVar(&o.noHeaders, "no-headers", false, "omit table and CSV headers")

	_ = cmd.RegisterFlagCompletionFunc("skip", completeTopologyNames)

	return cmd
}

func runSizing(cmd *cobra.Command, g *globalOptions, o *runOptions, args []string) error {
	ctx := cmd.Context()
	logger := g.logger
	cfg := g.config

	rng, err := parseRadixRange(args[0], args[1])
	if err != nil {
		return err
	}

	sel, err := topology.Select(topology.Catalog(newSearchers(cfg)), o.skip)
	if err != nil {
		return err
	}

	resources := sysinfo.Detect()
	capacity := sysinfo.PoolCapacity(cfg.CPUs)
	tasks := sel.TaskCount(rng)

	logger.Info("sizing topologies",
		"start", rng.Start,
		"stop", rng.Stop,
		"topologies", len(sel.Topologies),
		"skipped", len(sel.Skipped),
		"tasks", tasks,
		"cpus", capacity,
		"available_memory_gib", fmt.Sprintf("%.1f", resources.AvailableMemoryGiB))

	observers := []executor.Observer{
		&executor.LogObserver{Logger: logger, Verbose: g.verbose},
	}
	if cfg.Progress && output.IsTerminal(cmd.ErrOrStderr()) {
		observers = append(observers, executor.NewProgressObserver(cmd.ErrOrStderr(), tasks))
	}

	runner := topology.NewRunner(capacity, logger, observers...)
	table, outcome, err := runner.Run(ctx, rng, sel)
	if err != nil {
		return err
	}

	if o.csvFile != "" {
		if err := writeCSVFile(o.csvFile, table, outcome, o.noHeaders); err != nil {
			return err
		}
		logger.Info("wrote results", "file", o.csvFile)
	}

	formatter := output.NewFormatter(output.Format(cfg.Output),
		output.WithNoColor(cfg.NoColor),
		output.WithNoHeaders(o.noHeaders),
		output.WithWide(o.wide))

	return formatter.FormatRun(cmd.OutOrStdout(), table, outcome)
}

// parseRadixRange parses the START and STOP arguments
func parseRadixRange(start, stop string) (topology.RadixRange, error) {
	lo, err := strconv.Atoi(start)
	if err != nil {
		return topology.RadixRange{}, util.NewConfigurationError("start", start, "must be an integer")
	}

	hi, err := strconv.Atoi(stop)
	if err != nil {
		return topology.RadixRange{}, util.NewConfigurationError("stop", stop, "must be an integer")
	}

	return topology.NewRadixRange(lo, hi)
}

// newSearchers builds the external search procedures from configuration
func newSearchers(cfg *config.Config) topology.Searchers {
	return topology.Searchers{
		HyperX: topology.NewExecSearcher(
			cfg.Search.HyperX.Script, cfg.Search.HyperX.Binary,
			topology.HyperXLine, topology.SizeColumn, cfg.Search.SpawnRate),
		Dragonfly: topology.NewExecSearcher(
			cfg.Search.Dragonfly.Script, cfg.Search.Dragonfly.Binary,
			topology.DragonflyLine, topology.SizeColumn, cfg.Search.SpawnRate),
	}
}

func writeCSVFile(path string, table *topology.ResultTable, outcome topology.Outcome, noHeaders bool) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, "failed to create %s", path)
	}

	formatter := output.NewCSVFormatter(&output.Options{NoHeaders: noHeaders})
	if err := formatter.FormatRun(f, table, outcome); err != nil {
		f.Close()
		return util.WrapErrorf(err, "failed to write %s", path)
	}

	return f.Close()
}

// completeTopologyNames offers catalog names for --skip
func completeTopologyNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return topology.Names(topology.Catalog(topology.Searchers{})), cobra.ShellCompDirectiveNoFileComp
}
