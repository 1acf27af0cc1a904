package graph

import (
	"sort"

	"github.com/lumen-dev/lumen/internal/bundler"
)

// Import is one import edge of a module: the specifier as written in
// source and the module id it resolves to.
type Import struct {
	Specifier string
	Resolved  string
	External  bool
}

// Module is one compiled unit, keyed by its project-root-relative path.
type Module struct {
	ID       string
	ByteSize int
	Imports  []Import

	// Parents holds the ids of modules that import this one. Derived
	// from Imports during construction, never mutated afterwards.
	Parents []string
}

// HasParent reports whether id is a direct parent of the module.
func (m *Module) HasParent(id string) bool {
	for _, p := range m.Parents {
		if p == id {
			return true
		}
	}
	return false
}

// AliasMap returns the module's imports as a specifier → resolved-id map,
// the shape the syntax transform consumes. External imports keep their
// specifier unchanged.
func (m *Module) AliasMap() map[string]string {
	aliases := make(map[string]string, len(m.Imports))
	for _, imp := range m.Imports {
		if imp.External {
			continue
		}
		aliases[imp.Specifier] = imp.Resolved
	}
	return aliases
}

// Inconsistency records an import whose target is absent from the bundle
// metadata. The forward edge is kept; no reverse pointer exists.
type Inconsistency struct {
	ModuleID string
	Target   string
}

// Graph is the module dependency graph for one full build. It is
// immutable after construction; a rebuild produces a fresh Graph that
// replaces the old one wholesale.
type Graph struct {
	modules map[string]*Module
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{modules: make(map[string]*Module)}
}

// FromMetafile builds a graph from bundler metadata, deriving reverse
// dependency pointers from the forward import edges. Construction is
// deterministic: module ids are processed in sorted order, so Parents
// ordering is stable across builds of identical metadata.
func FromMetafile(meta *bundler.Metafile) (*Graph, []Inconsistency) {
	g := &Graph{modules: make(map[string]*Module, len(meta.Inputs))}

	ids := make([]string, 0, len(meta.Inputs))
	for id := range meta.Inputs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		input := meta.Inputs[id]
		mod := &Module{ID: id, ByteSize: input.Bytes}
		for _, imp := range input.Imports {
			mod.Imports = append(mod.Imports, Import{
				Specifier: imp.Original,
				Resolved:  imp.Path,
				External:  imp.External,
			})
		}
		g.modules[id] = mod
	}

	var diags []Inconsistency
	for _, id := range ids {
		mod := g.modules[id]
		for _, imp := range mod.Imports {
			if imp.External {
				continue
			}
			target, ok := g.modules[imp.Resolved]
			if !ok {
				diags = append(diags, Inconsistency{ModuleID: id, Target: imp.Resolved})
				continue
			}
			if !target.HasParent(id) {
				target.Parents = append(target.Parents, id)
			}
		}
	}

	return g, diags
}

// TopoOrder returns all module ids with every module preceded by the
// modules it imports, so evaluating them in order never references an
// unregistered module. Ties are broken by sorted id, making the order
// deterministic; import cycles are tolerated by the visited set, with
// the cycle's entry point ordered after the rest of the cycle.
func (g *Graph) TopoOrder() []string {
	order := make([]string, 0, len(g.modules))
	visited := make(map[string]bool, len(g.modules))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		mod := g.modules[id]
		for _, imp := range mod.Imports {
			if imp.External {
				continue
			}
			if _, ok := g.modules[imp.Resolved]; ok {
				visit(imp.Resolved)
			}
		}
		order = append(order, id)
	}

	for _, id := range g.IDs() {
		visit(id)
	}
	return order
}

// Get returns the module for the given id.
func (g *Graph) Get(id string) (*Module, bool) {
	mod, ok := g.modules[id]
	return mod, ok
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int {
	return len(g.modules)
}

// IDs returns all module ids in sorted order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
