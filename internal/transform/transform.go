package transform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/lumen-dev/lumen/internal/errors"
)

// Options are the inputs handed to the external syntax transform.
type Options struct {
	// Filename is the module id, used for diagnostics and loader choice.
	Filename string

	// Target is the runtime language level (e.g. "es2017").
	Target string

	// RuntimeHelpers controls whether the transform emits self-contained
	// helpers into the output. Hot updates need them because each update
	// body executes standalone; bundle emission shares injected helpers.
	RuntimeHelpers bool

	// Aliases maps import specifiers as written in source to resolved
	// module ids. Specifier resolution happens at runtime through the
	// wrapper's require shim; collaborators that cannot rewrite
	// specifiers themselves may leave them as written.
	Aliases map[string]string
}

// SyntaxTransformer is the external source-to-runtime-module rewrite
// collaborator: source text in, rewritten module text out. A syntax
// error in the source is reported as a non-nil error.
type SyntaxTransformer interface {
	Transform(source string, opts Options) (string, error)
}

// TransformError reports a module whose source was rejected by the
// syntax transform (or could not be read). It aborts the change event
// it occurred in.
type TransformError struct {
	ModuleID string
	Err      error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.ModuleID, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Config configures a Transformer.
type Config struct {
	// Root is the project root; module ids are paths relative to it.
	Root string

	// Target is the runtime language level passed to the syntax transform.
	Target string

	// Syntax is the external rewrite collaborator.
	Syntax SyntaxTransformer
}

// Transformer produces runtime-loadable code for single modules. The
// synthetic-name counter is owned by the instance, so test-isolated
// transformers never collide; the dev server shares one instance for the
// whole process.
type Transformer struct {
	config Config
	seq    atomic.Int64
}

// New creates a transformer.
func New(config Config) *Transformer {
	if config.Target == "" {
		config.Target = "es2017"
	}
	return &Transformer{config: config}
}

// next returns a process-unique value for synthetic variable names.
func (t *Transformer) next() int64 {
	return t.seq.Add(1)
}

// Transform reads the current source for moduleID, delegates syntax
// rewriting to the collaborator and wraps the result into a
// self-registering runtime module. The collaborator emits a CommonJS
// body, so the wrapper supplies module, exports and a require shim that
// resolves specifiers through the alias map to registry imports. When
// hot is true the whole wrapped body is enclosed in a guard that
// converts any runtime error during re-execution into a full-reload
// signal on the client.
//
// The wrapper relies on the syntax transform rewriting hot-lifecycle
// declarations in the body to the reserved locals __lumen_accept and
// __lumen_dispose; the hook registration calls emitted here bind their
// results to synthetic variables so repeated wrappers can share one
// scope in the concatenated bundle.
func (t *Transformer) Transform(moduleID string, hot bool, aliases map[string]string) (string, error) {
	srcPath := filepath.Join(t.config.Root, filepath.FromSlash(moduleID))
	source, err := os.ReadFile(srcPath)
	if err != nil {
		return "", &TransformError{ModuleID: moduleID, Err: errors.New("L111").Wrap(err)}
	}

	body, err := t.config.Syntax.Transform(string(source), Options{
		Filename:       moduleID,
		Target:         t.config.Target,
		RuntimeHelpers: hot,
		Aliases:        aliases,
	})
	if err != nil {
		return "", &TransformError{ModuleID: moduleID, Err: errors.New("L110").WithDetail(err.Error()).Wrap(err)}
	}

	ctxVar := fmt.Sprintf("__lumen_ctx_%d", t.next())
	acceptVar := fmt.Sprintf("__lumen_accept_%d", t.next())
	disposeVar := fmt.Sprintf("__lumen_dispose_%d", t.next())
	modVar := fmt.Sprintf("__lumen_mod_%d", t.next())

	aliasJSON := []byte("{}")
	if len(aliases) > 0 {
		if data, err := json.Marshal(aliases); err == nil {
			aliasJSON = data
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "var %s = Lumen.register(%q);\n", ctxVar, moduleID)
	fmt.Fprintf(&b, "var %s, %s;\n", acceptVar, disposeVar)
	fmt.Fprintf(&b, "var %s = { exports: {} };\n", modVar)
	b.WriteString("(function (hot, module, exports, require) {\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "if (typeof __lumen_accept !== \"undefined\") %s = hot.accept(__lumen_accept);\n", acceptVar)
	fmt.Fprintf(&b, "if (typeof __lumen_dispose !== \"undefined\") %s = hot.dispose(__lumen_dispose);\n", disposeVar)
	fmt.Fprintf(&b, "Lumen.export(%q, module.exports);\n", moduleID)
	fmt.Fprintf(&b, "})(%s, %s, %s.exports, Lumen.require(%q, %s));\n", ctxVar, modVar, modVar, moduleID, aliasJSON)

	wrapped := b.String()
	if hot {
		var g strings.Builder
		g.WriteString("try {\n")
		g.WriteString(wrapped)
		fmt.Fprintf(&g, "} catch (err) {\nLumen.bail(%q, err);\n}\n", moduleID)
		wrapped = g.String()
	}

	return wrapped, nil
}
