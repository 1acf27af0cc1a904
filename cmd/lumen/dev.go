package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/bundler"
	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port        int
		host        string
		openBrowser bool
		noHot       bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with hot updates.

The dev server watches for file changes, rebuilds the bundle, and pushes
per-module updates to connected browsers. Modules that cannot be updated
in place fall back to a full page reload.

Examples:
  lumen dev
  lumen dev --port=8080
  lumen dev --host=0.0.0.0
  lumen dev --no-hot`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host, openBrowser, noHot)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from lumen.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from lumen.json)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")
	cmd.Flags().BoolVar(&noHot, "no-hot", false, "Disable in-place updates, reload on every change")

	return cmd
}

func runDev(port int, host string, openBrowser, noHot bool) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Check for the bundler binary
	if _, err := exec.LookPath(cfg.Esbuild); err != nil {
		errorMsg("%s is not installed or not in PATH", cfg.Esbuild)
		info("Install esbuild from https://esbuild.github.io/")
		return err
	}

	// Apply command-line overrides
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if openBrowser {
		cfg.Dev.OpenBrowser = true
	}
	if noHot {
		cfg.Dev.HotUpdate = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Print banner
	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	// Create server
	server := dev.NewServer(dev.ServerOptions{
		Config:  cfg,
		Verbose: true,
		OnBuildComplete: func(result bundler.BuildResult) {
			if result.Success {
				success("Built in %s", result.Duration.Round(time.Millisecond))
			}
		},
		OnUpdate: func(ids []string, clients int) {
			success("Updated %d modules on %d clients", len(ids), clients)
		},
	})

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		server.Stop()
	}()

	// Open browser if requested
	if cfg.Dev.OpenBrowser {
		go func() {
			time.Sleep(300 * time.Millisecond)
			openURL(cfg.DevURL())
		}()
	}

	// Start server
	return server.Start(ctx)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("start"):
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}

	cmd.Start()
}

// commandExists checks if a command exists in PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
