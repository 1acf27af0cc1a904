package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	goerrors "errors"
)

// fakeSyntax records the options it was called with and returns a canned
// body or error.
type fakeSyntax struct {
	body string
	err  error

	calls []Options
}

func (f *fakeSyntax) Transform(source string, opts Options) (string, error) {
	f.calls = append(f.calls, opts)
	if f.err != nil {
		return "", f.err
	}
	if f.body != "" {
		return f.body, nil
	}
	return source, nil
}

func writeModule(t *testing.T, root, id, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(id))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTransform_Wrapping(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "src/app.ts", "console.log('hi');")

	syntax := &fakeSyntax{}
	tr := New(Config{Root: root, Syntax: syntax})

	out, err := tr.Transform("src/app.ts", false, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `Lumen.register("src/app.ts")`) {
		t.Error("wrapper should register the module id")
	}
	if !strings.Contains(out, "console.log('hi');") {
		t.Error("wrapper should contain the transformed body")
	}
	if !strings.Contains(out, `Lumen.export("src/app.ts", module.exports)`) {
		t.Error("wrapper should export the module bindings")
	}
	if !strings.Contains(out, "(function (hot, module, exports, require) {") {
		t.Error("wrapper should supply module, exports and require to the body")
	}
	if !strings.Contains(out, `Lumen.require("src/app.ts", {})`) {
		t.Error("wrapper should hand the body a registry-backed require shim")
	}
	if !strings.Contains(out, "hot.accept(__lumen_accept)") {
		t.Error("wrapper should register the accept hook")
	}
	if !strings.Contains(out, "hot.dispose(__lumen_dispose)") {
		t.Error("wrapper should register the dispose hook")
	}
	if strings.Contains(out, "try {") {
		t.Error("cold transform must not be guarded")
	}
}

func TestTransform_HotGuard(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "src/app.ts", "x();")

	tr := New(Config{Root: root, Syntax: &fakeSyntax{}})

	out, err := tr.Transform("src/app.ts", true, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, "try {") {
		t.Error("hot transform should be wrapped in a guard")
	}
	if !strings.Contains(out, `Lumen.bail("src/app.ts", err)`) {
		t.Error("guard should escalate to a full reload")
	}
}

func TestTransform_SyntheticNamesUnique(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "src/a.ts", "1;")
	writeModule(t, root, "src/b.ts", "2;")

	tr := New(Config{Root: root, Syntax: &fakeSyntax{}})

	outA, err := tr.Transform("src/a.ts", false, nil)
	if err != nil {
		t.Fatal(err)
	}
	outB, err := tr.Transform("src/b.ts", false, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Each name legitimately appears more than once within its own
	// wrapper (declaration plus use); uniqueness holds across wrappers.
	re := regexp.MustCompile(`__lumen_(?:ctx|accept|dispose|mod)_\d+`)
	namesOf := func(out string) map[string]bool {
		names := map[string]bool{}
		for _, name := range re.FindAllString(out, -1) {
			names[name] = true
		}
		return names
	}

	namesA := namesOf(outA)
	namesB := namesOf(outB)
	for name := range namesA {
		if namesB[name] {
			t.Errorf("synthetic name %q reused across wrappers", name)
		}
	}
	if len(namesA) != 4 || len(namesB) != 4 {
		t.Errorf("distinct names per wrapper = %d and %d, want 4 each", len(namesA), len(namesB))
	}
}

func TestTransform_RequireShimCarriesAliases(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "src/app.ts", `var dep = require("./util");`)

	tr := New(Config{Root: root, Syntax: &fakeSyntax{}})

	out, err := tr.Transform("src/app.ts", true, map[string]string{"./util": "src/util.ts"})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `Lumen.require("src/app.ts", {"./util":"src/util.ts"})`) {
		t.Errorf("wrapper missing alias-backed require shim:\n%s", out)
	}
}

func TestTransform_AliasesForwarded(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "src/app.ts", "import './util';")

	syntax := &fakeSyntax{}
	tr := New(Config{Root: root, Target: "es2020", Syntax: syntax})

	aliases := map[string]string{"./util": "src/util.ts"}
	if _, err := tr.Transform("src/app.ts", true, aliases); err != nil {
		t.Fatal(err)
	}

	if len(syntax.calls) != 1 {
		t.Fatalf("collaborator called %d times, want 1", len(syntax.calls))
	}
	opts := syntax.calls[0]
	if opts.Filename != "src/app.ts" {
		t.Errorf("Filename = %q", opts.Filename)
	}
	if opts.Target != "es2020" {
		t.Errorf("Target = %q", opts.Target)
	}
	if !opts.RuntimeHelpers {
		t.Error("hot updates must request self-contained helpers")
	}
	if opts.Aliases["./util"] != "src/util.ts" {
		t.Errorf("Aliases = %v", opts.Aliases)
	}
}

func TestTransform_SyntaxError(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "src/bad.ts", "let = ;")

	syntax := &fakeSyntax{err: fmt.Errorf("unexpected token")}
	tr := New(Config{Root: root, Syntax: syntax})

	_, err := tr.Transform("src/bad.ts", false, nil)
	if err == nil {
		t.Fatal("expected a transform error")
	}

	var terr *TransformError
	if !goerrors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TransformError", err)
	}
	if terr.ModuleID != "src/bad.ts" {
		t.Errorf("ModuleID = %q", terr.ModuleID)
	}
}

func TestTransform_MissingSource(t *testing.T) {
	tr := New(Config{Root: t.TempDir(), Syntax: &fakeSyntax{}})

	_, err := tr.Transform("src/gone.ts", false, nil)
	var terr *TransformError
	if !goerrors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TransformError", err)
	}
}

func TestLoaderFor(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"src/a.ts", "ts"},
		{"src/a.tsx", "tsx"},
		{"src/a.jsx", "jsx"},
		{"src/a.json", "json"},
		{"src/a.css", "css"},
		{"src/a.js", "js"},
		{"src/a.mjs", "js"},
	}

	for _, tt := range tests {
		if got := loaderFor(tt.file); got != tt.want {
			t.Errorf("loaderFor(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}
