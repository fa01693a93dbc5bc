// Package builder constructs dot graphs from the API model: package trees,
// class hierarchies, and import graphs.
//
// All three builders follow the same skeleton: expand the caller-supplied
// roots breadth-first into a deduplicated entity set, add one node per
// entity sorted by canonical name, then add one edge per relationship.
// The node for the optional "current context" entity is highlighted; every
// other node gets its documentation URL as an href when the linker knows one.
package builder

import (
	"slices"

	"github.com/docforge/docgraph/pkg/apidoc"
	"github.com/docforge/docgraph/pkg/dot"
)

// Options controls graph construction.
type Options struct {
	// Dir is the layout direction (rankdir). When empty, package and class
	// trees default to "LR" and import graphs to "RL". A rankdir directive
	// is only emitted when the direction is not "TB", Graphviz's own default.
	Dir string

	// Context is the canonical name of the entity the graph is being drawn
	// for. Its node is drawn filled black with white text instead of linked.
	Context string
}

// defaultNodeAttrs and defaultEdgeAttrs are the shared defaults for all
// three graph kinds: tight boxes, and edges sharing tails where possible.
func defaultNodeAttrs() dot.Attrs {
	return dot.Attrs{"shape": "box", "width": "0", "height": "0"}
}

func defaultEdgeAttrs() dot.Attrs {
	return dot.Attrs{"sametail": "true"}
}

// PackageTree builds a graph of the package hierarchies rooted at the given
// packages: one node per module, one edge per package/submodule relationship.
func PackageTree(reg *dot.Registry, packages []*apidoc.Module, linker dot.Linker, opts Options) *dot.Graph {
	g := dot.New(reg, "Package Tree",
		dot.WithNodeDefaults(defaultNodeAttrs()),
		dot.WithEdgeDefaults(defaultEdgeAttrs()))
	applyDir(g, opts.Dir, "LR")

	modules := collectModules(packages)
	nodes := addEntityNodes(g, moduleNames(modules), linker, opts.Context)

	for _, name := range sortedKeys(modules) {
		for _, sub := range modules[name].Submodules {
			g.AddEdge(nodes[name], nodes[sub.Name], nil)
		}
	}
	return g
}

// ClassTree builds a graph of the class hierarchies rooted at the given base
// classes: one node per class, one edge per class/subclass relationship.
func ClassTree(reg *dot.Registry, bases []*apidoc.Class, linker dot.Linker, opts Options) *dot.Graph {
	g := dot.New(reg, "Class Hierarchy",
		dot.WithNodeDefaults(defaultNodeAttrs()),
		dot.WithEdgeDefaults(defaultEdgeAttrs()))
	applyDir(g, opts.Dir, "LR")

	classes := collectClasses(bases)
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	nodes := addEntityNodes(g, names, linker, opts.Context)

	for _, name := range sortedKeys(classes) {
		for _, sub := range classes[name].Subclasses {
			g.AddEdge(nodes[name], nodes[sub.Name], nil)
		}
	}
	return g
}

// ImportGraph builds a graph of the import relationships among the given
// modules. Unlike the tree builders it does not expand submodules: the node
// set is exactly the given modules. Each recorded import is resolved to the
// longest known module prefix via index, and an edge is added from the
// imported module to the importer when both ends are in the node set.
// Duplicate (source, destination) pairs collapse to one edge.
func ImportGraph(reg *dot.Registry, modules []*apidoc.Module, index *apidoc.Index, linker dot.Linker, opts Options) *dot.Graph {
	g := dot.New(reg, "Import Graph",
		dot.WithNodeDefaults(defaultNodeAttrs()),
		dot.WithEdgeDefaults(defaultEdgeAttrs()))
	applyDir(g, opts.Dir, "RL")

	distinct := make(map[string]*apidoc.Module, len(modules))
	for _, m := range modules {
		if _, seen := distinct[m.Name]; !seen {
			distinct[m.Name] = m
		}
	}
	nodes := addEntityNodes(g, moduleNames(distinct), linker, opts.Context)

	type pair struct{ src, dst string }
	seen := make(map[pair]struct{})
	var pairs []pair
	for _, dstName := range sortedKeys(distinct) {
		for _, imp := range distinct[dstName].Imports {
			src, ok := index.ResolveImport(imp)
			if !ok {
				continue
			}
			p := pair{src: src.Name, dst: dstName}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}

	for _, p := range pairs {
		srcNode, okSrc := nodes[p.src]
		dstNode, okDst := nodes[p.dst]
		if okSrc && okDst {
			g.AddEdge(srcNode, dstNode, nil)
		}
	}
	return g
}

// applyDir appends a rankdir directive to the graph body unless the chosen
// direction is TB, which Graphviz applies anyway.
func applyDir(g *dot.Graph, dir, fallback string) {
	if dir == "" {
		dir = fallback
	}
	if dir != "TB" {
		g.AppendBody("rankdir=" + dir + "\n")
	}
}

// collectModules expands the given roots breadth-first through their
// submodule trees. Each module appears once regardless of how many parents
// reference it, which also makes the traversal safe on cyclic references.
func collectModules(roots []*apidoc.Module) map[string]*apidoc.Module {
	collected := make(map[string]*apidoc.Module)
	queue := slices.Clone(roots)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if _, seen := collected[m.Name]; seen {
			continue
		}
		collected[m.Name] = m
		queue = append(queue, m.Submodules...)
	}
	return collected
}

// collectClasses expands the given bases breadth-first through their
// subclass trees, deduplicating by canonical name.
func collectClasses(bases []*apidoc.Class) map[string]*apidoc.Class {
	collected := make(map[string]*apidoc.Class)
	queue := slices.Clone(bases)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if _, seen := collected[c.Name]; seen {
			continue
		}
		collected[c.Name] = c
		queue = append(queue, c.Subclasses...)
	}
	return collected
}

// addEntityNodes adds one node per canonical name, sorted so node order (and
// thus node IDs) is deterministic. The context entity is highlighted; other
// entities get an href when the linker resolves their name to a URL.
func addEntityNodes(g *dot.Graph, names []string, linker dot.Linker, context string) map[string]*dot.Node {
	slices.Sort(names)
	nodes := make(map[string]*dot.Node, len(names))
	for _, name := range names {
		n := g.AddNode(name, nil)
		if name == context && context != "" {
			n.Attrs["fillcolor"] = "black"
			n.Attrs["fontcolor"] = "white"
			n.Attrs["style"] = "filled"
		} else if linker != nil {
			if url := linker.URLFor(name); url != "" {
				n.Attrs["href"] = url
			}
		}
		nodes[name] = n
	}
	return nodes
}

func moduleNames(modules map[string]*apidoc.Module) []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
