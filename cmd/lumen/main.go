package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ┬ ┬┌┬┐┌─┐┌┐┌
  ║  │ ││││├┤ │││
  ╩═╝└─┘┴ ┴└─┘┘└┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Hot-update development server for web projects",
		Long: `Lumen is a development server with in-place module updates.

It bundles your project with esbuild, watches the sources, and pushes
per-module hot updates to connected browsers. Features include:

  • In-place module updates without page reloads
  • Change propagation along the import graph
  • Error overlay in browser
  • One-shot production builds
  • Prometheus metrics at /metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		devCmd(),
		buildCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Lumen ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
