package cli

import (
	"fmt"

	"github.com/aryankumar/toposcale/internal/config"
	"github.com/aryankumar/toposcale/internal/output"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command
func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
		Long: `Show or save the configuration toposcale runs with.

The effective configuration merges defaults, the config file,
TOPOSCALE_* environment variables and command-line flags.`,
	}

	cmd.AddCommand(newConfigViewCmd(g))
	cmd.AddCommand(newConfigSaveCmd(g))

	return cmd
}

func newConfigViewCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.manager.GetConfig()
			format := output.Format(cfg.Output)
			// CSV has no key-value shape
			if format == output.FormatCSV {
				format = output.FormatTable
			}

			formatter := output.NewFormatter(format, output.WithNoColor(cfg.NoColor))
			if format == output.FormatTable {
				return formatter.Format(cmd.OutOrStdout(), configEntries(cfg))
			}
			return formatter.Format(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigSaveCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to the config file",
		Long: `Write the effective configuration to the file named by --config,
or to $HOME/.toposcale.yaml when no file was given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := g.manager.Save(); err != nil {
				return err
			}

			path := g.manager.ConfigPath()
			g.logger.Debug("saved configuration", "file", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			return nil
		},
	}
}

// configEntries flattens cfg into its configuration keys
func configEntries(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		config.KeyCPUs:            cfg.CPUs,
		config.KeyOutput:          cfg.Output,
		config.KeyNoColor:         cfg.NoColor,
		config.KeyProgress:        cfg.Progress,
		config.KeySpawnRate:       cfg.Search.SpawnRate,
		config.KeyHyperXScript:    cfg.Search.HyperX.Script,
		config.KeyHyperXBinary:    cfg.Search.HyperX.Binary,
		config.KeyDragonflyScript: cfg.Search.Dragonfly.Script,
		config.KeyDragonflyBinary: cfg.Search.Dragonfly.Binary,
	}
}
