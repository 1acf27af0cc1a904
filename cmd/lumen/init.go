package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
)

func initCmd() *cobra.Command {
	var entry string

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a lumen.json in the current directory",
		Long: `Write a lumen.json with default settings.

Examples:
  lumen init
  lumen init my-app
  lumen init my-app --entry=src/main.tsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			if config.Exists(wd) {
				return fmt.Errorf("lumen.json already exists in %s", wd)
			}

			cfg := config.New()
			if len(args) > 0 {
				cfg.Name = args[0]
			}
			if entry != "" {
				cfg.Entry = entry
			}

			path := filepath.Join(wd, config.ConfigFileName)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success("Created %s", config.ConfigFileName)
			info("Entry point: %s", cfg.Entry)
			info("Run 'lumen dev' to start the development server")
			return nil
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "Bundle entry point (default "+config.DefaultEntry+")")

	return cmd
}
