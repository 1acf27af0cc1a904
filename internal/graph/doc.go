// Package graph holds the module dependency graph built from bundler
// metadata, and the invalidation resolver that computes which modules a
// single file change affects.
//
// A Graph is built wholesale from one full bundle build and never
// mutated; the dev server swaps the whole graph atomically on rebuild.
// Edges are expressed as module id references rather than pointers, so
// cyclic import graphs need no special ownership handling.
//
// Reverse dependency (parent) pointers are derived from the forward
// import edges at construction time. Resolve walks them breadth-first to
// produce the ordered invalidation set for a changed module.
package graph
