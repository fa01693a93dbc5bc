// Package apidoc holds the slice of the documented API model that graph
// generation consumes: modules with their submodules and recorded imports,
// classes with their subclasses, and a link table mapping canonical dotted
// names to documentation URLs.
//
// The model is produced elsewhere in the documentation toolchain; this
// package only loads it (see [Load]) and exposes the lookups the graph
// builders need.
package apidoc

import (
	"strings"
)

// Module is one module or package in the documented API.
type Module struct {
	// Name is the canonical dotted name (e.g. "docforge.writer.html").
	Name string `json:"name"`

	// Submodules are the modules contained in this package.
	Submodules []*Module `json:"submodules,omitempty"`

	// Imports are the dotted names recorded in the module's import
	// statements. They may name submodule members rather than modules;
	// import-graph construction resolves each to the longest known prefix
	// that denotes a module.
	Imports []string `json:"imports,omitempty"`
}

// CanonicalName returns the module's fully qualified dotted name.
func (m *Module) CanonicalName() string { return m.Name }

// Class is one class in the documented API.
type Class struct {
	// Name is the canonical dotted name (e.g. "docforge.model.APIDoc").
	Name string `json:"name"`

	// Subclasses are the classes derived from this one.
	Subclasses []*Class `json:"subclasses,omitempty"`
}

// CanonicalName returns the class's fully qualified dotted name.
func (c *Class) CanonicalName() string { return c.Name }

// Index is a lookup from canonical dotted names to known modules.
// It indexes whole submodule trees, so a root package registers every
// module reachable from it.
type Index struct {
	modules map[string]*Module
}

// NewIndex builds an index over the given root modules and everything
// reachable through their submodule trees. A module reached through several
// parents is indexed once; the first registration wins.
func NewIndex(roots ...*Module) *Index {
	ix := &Index{modules: make(map[string]*Module)}
	queue := make([]*Module, len(roots))
	copy(queue, roots)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if m == nil || m.Name == "" {
			continue
		}
		if _, seen := ix.modules[m.Name]; seen {
			continue
		}
		ix.modules[m.Name] = m
		queue = append(queue, m.Submodules...)
	}
	return ix
}

// Module returns the module with the given canonical name.
func (ix *Index) Module(name string) (*Module, bool) {
	m, ok := ix.modules[name]
	return m, ok
}

// Len returns the number of indexed modules.
func (ix *Index) Len() int { return len(ix.modules) }

// ResolveImport maps a recorded import name to the most specific known
// module that is a prefix of it: "a.b.c" resolves to "a.b" when "a.b" is
// indexed but "a.b.c" is not, skipping the shorter "a". Returns false when
// no prefix denotes a known module.
func (ix *Index) ResolveImport(name string) (*Module, bool) {
	parts := strings.Split(name, ".")
	for i := len(parts); i > 0; i-- {
		if m, ok := ix.modules[strings.Join(parts[:i], ".")]; ok {
			return m, true
		}
	}
	return nil, false
}
