package bundler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Config configures the bundler.
type Config struct {
	// Root is the project root directory. Module ids are relative to it.
	Root string

	// Entry is the entry point file, relative to Root.
	Entry string

	// BinaryPath is the esbuild binary to invoke (default "esbuild").
	BinaryPath string

	// OutfilePath is where the bundle is written.
	OutfilePath string

	// MetafilePath is where the bundle metadata is written.
	MetafilePath string

	// Target is the runtime language level (e.g. "es2017").
	Target string

	// External are import specifiers excluded from the bundle.
	External []string

	// Minify enables minification.
	Minify bool

	// Sourcemap enables inline source maps.
	Sourcemap bool

	// Env are additional environment variables.
	Env []string
}

// BuildResult contains the result of a full bundle build.
type BuildResult struct {
	// Success indicates if the build succeeded.
	Success bool

	// Duration is how long the build took.
	Duration time.Duration

	// Output is the bundler's diagnostic output.
	Output string

	// Bundle is the emitted bundle bytes.
	Bundle []byte

	// Metafile is the parsed per-module metadata.
	Metafile *Metafile

	// Error is the build error, if any.
	Error error
}

// Bundler drives the external bundling engine. It produces the Build
// Artifact (bundle bytes) and the metadata the module graph is built from.
type Bundler struct {
	config Config
}

// New creates a bundler for the given project.
func New(config Config) *Bundler {
	if config.BinaryPath == "" {
		config.BinaryPath = "esbuild"
	}
	if config.OutfilePath == "" {
		config.OutfilePath = filepath.Join(config.Root, ".lumen", "bundle.js")
	}
	if config.MetafilePath == "" {
		config.MetafilePath = filepath.Join(config.Root, ".lumen", "metafile.json")
	}
	if config.Target == "" {
		config.Target = "es2017"
	}

	return &Bundler{config: config}
}

// Build runs a full bundle build and parses the resulting metafile.
func (b *Bundler) Build(ctx context.Context) BuildResult {
	start := time.Now()

	if err := os.MkdirAll(filepath.Dir(b.config.OutfilePath), 0755); err != nil {
		return BuildResult{
			Duration: time.Since(start),
			Error:    errors.New("L100").Wrap(err),
		}
	}

	args := []string{
		b.config.Entry,
		"--bundle",
		"--format=iife",
		"--outfile=" + b.config.OutfilePath,
		"--metafile=" + b.config.MetafilePath,
		"--target=" + b.config.Target,
	}
	if b.config.Minify {
		args = append(args, "--minify")
	}
	if b.config.Sourcemap {
		args = append(args, "--sourcemap=inline")
	}
	for _, ext := range b.config.External {
		args = append(args, "--external:"+ext)
	}

	cmd := exec.CommandContext(ctx, b.config.BinaryPath, args...)
	cmd.Dir = b.config.Root
	cmd.Env = append(os.Environ(), b.config.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	output := stderr.String()
	if output == "" {
		output = stdout.String()
	}

	if err != nil {
		return BuildResult{
			Success:  false,
			Duration: duration,
			Output:   output,
			Error:    errors.New("L100").WithDetail(output).WithLocationFromOutput(output).Wrap(err),
		}
	}

	bundle, err := os.ReadFile(b.config.OutfilePath)
	if err != nil {
		return BuildResult{
			Success:  false,
			Duration: duration,
			Output:   output,
			Error:    errors.New("L100").WithDetail(fmt.Sprintf("bundle missing at %s", b.config.OutfilePath)).Wrap(err),
		}
	}

	metaBytes, err := os.ReadFile(b.config.MetafilePath)
	if err != nil {
		return BuildResult{
			Success:  false,
			Duration: duration,
			Output:   output,
			Error:    errors.New("L101").Wrap(err),
		}
	}

	meta, err := ParseMetafile(metaBytes)
	if err != nil {
		return BuildResult{
			Success:  false,
			Duration: duration,
			Output:   output,
			Error:    errors.New("L101").Wrap(err),
		}
	}

	return BuildResult{
		Success:  true,
		Duration: duration,
		Output:   output,
		Bundle:   bundle,
		Metafile: meta,
	}
}

// OutfilePath returns the path the bundle is written to.
func (b *Bundler) OutfilePath() string {
	return b.config.OutfilePath
}

// Clean removes build outputs.
func (b *Bundler) Clean() error {
	if err := os.Remove(b.config.OutfilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(b.config.MetafilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
