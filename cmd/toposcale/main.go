package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/toposcale/internal/cli"
	"github.com/aryankumar/toposcale/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler(slog.Default())

	// Execute the CLI
	if err := cli.Execute(ctx); err != nil {
		slog.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
		if util.IsConfigError(err) {
			fmt.Fprintln(os.Stderr, "Run 'toposcale --help' for usage.")
		}
		os.Exit(1)
	}
}
