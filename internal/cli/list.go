package cli

import (
	"github.com/aryankumar/toposcale/internal/output"
	"github.com/aryankumar/toposcale/internal/topology"
	"github.com/spf13/cobra"
)

// newListCmd creates the list command
func newListCmd(g *globalOptions) *cobra.Command {
	var skip []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the topologies a run would size",
		Long: `List the topology names in the order they appear as result columns.

Names given with --skip are validated and left out, exactly as run would.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := topology.Select(topology.Catalog(topology.Searchers{}), skip)
			if err != nil {
				return err
			}

			g.logger.Debug("selected topologies", "count", len(sel.Topologies), "skipped", len(sel.Skipped))

			formatter := output.NewFormatter(output.Format(g.config.Output), output.WithNoColor(g.config.NoColor))
			return formatter.Format(cmd.OutOrStdout(), sel.Names())
		},
	}

	cmd.Flags().StringArrayVar(&skip, "skip", nil, "topology to skip, by name (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("skip", completeTopologyNames)

	return cmd
}
