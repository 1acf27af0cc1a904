package transform

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lumen-dev/lumen/internal/errors"
)

// EsbuildTransformer rewrites single modules by shelling out to the
// esbuild binary. It is the default SyntaxTransformer.
type EsbuildTransformer struct {
	// BinaryPath is the esbuild binary to invoke (default "esbuild").
	BinaryPath string
}

// NewEsbuildTransformer creates an esbuild-backed syntax transformer.
func NewEsbuildTransformer(binaryPath string) *EsbuildTransformer {
	if binaryPath == "" {
		binaryPath = "esbuild"
	}
	return &EsbuildTransformer{BinaryPath: binaryPath}
}

// buildArgs assembles the esbuild command line for one transform.
//
// Output is CommonJS: the emitted body must execute inside the runtime
// wrapper's function scope, where ESM import/export statements are a
// parse error. Import specifiers survive as require() calls and are
// resolved at runtime by the wrapper's require shim, so the alias map
// is not forwarded (esbuild only honors --alias when bundling). When
// RuntimeHelpers is false, lowering helpers are imported from tslib
// instead of inlined, so the concatenated bundle shares one copy.
func buildArgs(opts Options) []string {
	args := []string{
		"--loader=" + loaderFor(opts.Filename),
		"--format=cjs",
		"--sourcefile=" + opts.Filename,
	}
	if opts.Target != "" {
		args = append(args, "--target="+opts.Target)
	}
	if !opts.RuntimeHelpers {
		args = append(args, `--tsconfig-raw={"compilerOptions":{"importHelpers":true}}`)
	}
	return args
}

// Transform feeds the source through esbuild on stdin.
func (e *EsbuildTransformer) Transform(source string, opts Options) (string, error) {
	cmd := exec.Command(e.BinaryPath, buildArgs(opts)...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.New("L110").
			WithDetail(stderr.String()).
			WithLocationFromOutput(stderr.String()).
			Wrap(err)
	}

	return stdout.String(), nil
}

// loaderFor maps a module id to an esbuild loader name.
func loaderFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts":
		return "ts"
	case ".tsx":
		return "tsx"
	case ".jsx":
		return "jsx"
	case ".json":
		return "json"
	case ".css":
		return "css"
	default:
		return "js"
	}
}
