package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/bundler"
	"github.com/lumen-dev/lumen/internal/config"
)

func buildCmd() *cobra.Command {
	var (
		output    string
		minify    bool
		sourcemap bool
		clean     bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the bundle for production",
		Long: `Build the application bundle for production deployment.

This command:
  • Bundles the project from its entry point
  • Minifies the output
  • Writes the bundle metadata alongside it

Examples:
  lumen build
  lumen build --output=dist
  lumen build --sourcemap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, minify, sourcemap, clean)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from lumen.json)")
	cmd.Flags().BoolVar(&minify, "minify", true, "Minify output")
	cmd.Flags().BoolVar(&sourcemap, "sourcemap", false, "Generate inline source maps")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output before build")

	return cmd
}

func runBuild(output string, minify, sourcemap, clean bool) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Build.Output = output
	}

	fmt.Println("  Building for production...")
	fmt.Println()

	outDir := cfg.OutputPath()
	b := bundler.New(bundler.Config{
		Root:         cfg.Dir(),
		Entry:        cfg.Entry,
		BinaryPath:   cfg.Esbuild,
		OutfilePath:  filepath.Join(outDir, "bundle.js"),
		MetafilePath: filepath.Join(outDir, "metafile.json"),
		Target:       cfg.Target,
		External:     cfg.External,
		Minify:       minify,
		Sourcemap:    sourcemap,
	})

	if clean {
		info("Cleaning output...")
		b.Clean()
	}

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	// Build
	result := b.Build(ctx)
	if !result.Success {
		return result.Error
	}

	fmt.Println()
	success("Build complete in %s", result.Duration.Round(time.Millisecond))
	fmt.Println()
	fmt.Println("  Output:")
	fmt.Printf("    %s/\n", cfg.Build.Output)
	fmt.Printf("    ├── bundle.js      (%s)\n", formatBytes(int64(len(result.Bundle))))
	fmt.Printf("    └── metafile.json  (%d modules)\n", len(result.Metafile.Inputs))
	fmt.Println()

	return nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
