package cli

import (
	"fmt"

	"github.com/aryankumar/toposcale/internal/output"
	"github.com/aryankumar/toposcale/pkg/version"
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for toposcale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, g)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command, g *globalOptions) error {
	info := version.Get()
	format := output.Format(g.config.Output)
	formatter := output.NewFormatter(format, output.WithNoColor(g.config.NoColor))

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return formatter.Format(cmd.OutOrStdout(), info)
	case output.FormatTable:
		return formatter.Format(cmd.OutOrStdout(), map[string]interface{}{
			"name":      "toposcale",
			"version":   info.Version,
			"commit":    info.Commit,
			"buildTime": info.BuildTime,
			"goVersion": info.GoVersion,
			"platform":  info.Platform,
		})
	default:
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	}
}
