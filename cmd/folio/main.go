// Command folio serves, exports and inspects a folio portfolio site.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - a portfolio site served from one settings document",
		Long: `folio renders a personal portfolio site (home, about, portfolio, blog and
contact pages) from a single JSON or YAML settings document. It can serve the
site, export it as static files, and check or preview the document.

Process configuration comes from FOLIO_* environment variables.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newBuildCmd(),
		newCheckCmd(),
		newPreviewCmd(),
		newStatsCmd(),
		newNewCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("folio %s\n", version)
		},
	}
}
