package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aryankumar/toposcale/internal/config"
	"github.com/spf13/cobra"
)

// globalOptions is the state shared by every subcommand once the
// persistent pre-run has loaded the configuration
type globalOptions struct {
	configFile string
	verbose    bool

	manager *config.Manager
	config  *config.Config
	logger  *slog.Logger
}

// flagKeys maps configuration keys to the flags that override them.
// Flags missing from a subcommand are skipped.
var flagKeys = map[string]string{
	config.KeyCPUs:      "cpus",
	config.KeyOutput:    "output",
	config.KeyNoColor:   "no-color",
	config.KeyProgress:  "progress",
	config.KeySpawnRate: "spawn-rate",
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "toposcale",
		Short: "toposcale - network topology size estimator",
		Long: `toposcale computes how many endpoints a network topology can connect
as a function of router radix.

It sizes fat trees, HyperX, Dragonfly, Dragonfly+ and Fat Dragon networks
over a radix range, running closed-form estimates and external searches
in parallel, bounded by the number of CPUs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, opts)
		},
	}

	// Define persistent flags
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.toposcale.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, csv, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Int("cpus", 0, "number of tasks to run at once (default is the CPU count)")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// initConfig loads configuration from file, environment and flags, then
// sets up logging
func initConfig(cmd *cobra.Command, opts *globalOptions) error {
	manager := config.NewManager(opts.configFile)

	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := manager.BindFlag(key, flag); err != nil {
			return err
		}
	}

	cfg, err := manager.Load()
	if err != nil {
		return err
	}

	if err := manager.Validate(); err != nil {
		return err
	}

	opts.manager = manager
	opts.config = cfg
	opts.logger = setupLogging(cmd.ErrOrStderr(), opts.verbose, cfg.NoColor)

	if file := manager.ConfigFileUsed(); file != "" {
		opts.logger.Debug("loaded configuration", "file", file)
	}

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(w io.Writer, verbose, noColor bool) *slog.Logger {
	// Set log level based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		// Use JSON handler for no-color mode
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if verbose {
		logger.Debug("verbose logging enabled")
	}

	return logger
}
