package runtime

import (
	"fmt"
	"sync"
)

// Bindings is a module's exported-bindings object.
type Bindings map[string]any

// AcceptFunc is invoked after a module's new code has been applied,
// receiving the update body as payload.
type AcceptFunc func(body string)

// DisposeFunc is invoked before a module's old code is replaced.
type DisposeFunc func()

// Executor runs a received module body. In the browser this is eval; a
// headless client injects its own interpretation.
type Executor func(body string) error

// ModuleNotFoundError reports an import of a module id with no table
// entry. It indicates a dependency-ordering bug upstream.
type ModuleNotFoundError struct {
	ModuleID string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module not found: %s", e.ModuleID)
}

// ApplyError reports a hot update whose body raised during execution.
// The registry has already forced a reload by the time it is returned.
type ApplyError struct {
	ModuleID string
	Err      error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply update for %s: %v", e.ModuleID, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Context is the per-module hot-update lifecycle handle. It is created
// exactly once per module per session; re-registration on hot update
// reuses it with cleared callback lists.
type Context struct {
	moduleID string
	accepts  []AcceptFunc
	disposes []DisposeFunc
	registry *Registry
}

// ModuleID returns the module this context belongs to.
func (c *Context) ModuleID() string {
	return c.moduleID
}

// Accept appends a callback invoked after each applied update, in
// registration order.
func (c *Context) Accept(fn AcceptFunc) {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	c.accepts = append(c.accepts, fn)
}

// Dispose appends a cleanup callback invoked before the module's old
// code is replaced, in registration order.
func (c *Context) Dispose(fn DisposeFunc) {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	c.disposes = append(c.disposes, fn)
}

// Registry is the client-side module table and hot-update state machine.
// Update application is synchronous with respect to the message that
// delivered it; the mutex only guards against a host embedding the
// registry on multiple goroutines.
type Registry struct {
	mu       sync.Mutex
	modules  map[string]Bindings
	contexts map[string]*Context
	exec     Executor
	reload   func()
}

// NewRegistry creates a registry. exec runs received update bodies;
// reload is the full-page-reload escape hatch and must never be nil.
func NewRegistry(exec Executor, reload func()) *Registry {
	return &Registry{
		modules:  make(map[string]Bindings),
		contexts: make(map[string]*Context),
		exec:     exec,
		reload:   reload,
	}
}

// Register creates or looks up the hot-update context for a module id.
// Idempotent: re-registration returns the existing context with its
// callback lists cleared, ready to be repopulated by the new body.
func (r *Registry) Register(id string) *Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx, ok := r.contexts[id]; ok {
		ctx.accepts = nil
		ctx.disposes = nil
		return ctx
	}

	ctx := &Context{moduleID: id, registry: r}
	r.contexts[id] = ctx
	return ctx
}

// Export overwrites the module table entry for id; last write wins.
func (r *Registry) Export(id string, bindings Bindings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[id] = bindings
}

// Import returns the exported bindings for id. An unknown id is fatal to
// the importing module's initialization.
func (r *Registry) Import(id string) (Bindings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bindings, ok := r.modules[id]
	if !ok {
		return nil, &ModuleNotFoundError{ModuleID: id}
	}
	return bindings, nil
}

// Registered reports whether id has a hot-update context.
func (r *Registry) Registered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.contexts[id]
	return ok
}

// Apply applies an update message for one module: dispose callbacks run
// oldest-first, the new body executes (re-running register and export,
// repopulating the hooks), then the new accept callbacks run with the
// body as payload. Any execution error forces a full reload so the
// module table never mixes old and partially-applied new bindings.
func (r *Registry) Apply(id, body string) error {
	r.mu.Lock()
	var disposes []DisposeFunc
	if ctx, ok := r.contexts[id]; ok {
		disposes = append(disposes, ctx.disposes...)
	}
	r.mu.Unlock()

	for _, fn := range disposes {
		fn()
	}

	if err := r.exec(body); err != nil {
		r.reload()
		return &ApplyError{ModuleID: id, Err: err}
	}

	r.mu.Lock()
	var accepts []AcceptFunc
	if ctx, ok := r.contexts[id]; ok {
		accepts = append(accepts, ctx.accepts...)
	}
	r.mu.Unlock()

	for _, fn := range accepts {
		fn(body)
	}

	return nil
}

// HandleMessage dispatches one wire message. Unknown message types are
// ignored; a reload message forces reload unconditionally.
func (r *Registry) HandleMessage(msg Message) error {
	switch msg.Type {
	case MessageUpdate:
		return r.Apply(msg.ID, msg.Body)
	case MessageReload:
		r.reload()
		return nil
	default:
		return nil
	}
}
