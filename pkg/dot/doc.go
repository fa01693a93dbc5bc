// Package dot builds and renders Graphviz directed-graph descriptions.
//
// A [Graph] aggregates nodes, edges, default attribute sets, and a raw body
// fragment, and serializes to the DOT language via [Graph.ToDOT]. Node IDs
// and graph UIDs are allocated by an explicit [Registry] so that independent
// runs (and tests) stay isolated from each other.
//
// Cross-references are carried through the graph as href placeholders of the
// form <dotted.name>. [Graph.Link] resolves them against a [Linker] before
// serialization; placeholders the linker cannot resolve are dropped.
//
// Rendering goes through a [Renderer], which pipes the DOT text into the
// external dot command with a bounded wall-clock timeout. When dot is not
// installed, the renderer can fall back to the Graphviz build embedded in
// goccy/go-graphviz.
//
//	reg := dot.NewRegistry()
//	g := dot.New(reg, "Package Tree")
//	a := g.AddNode("docforge", nil)
//	b := g.AddNode("docforge.cli", nil)
//	g.AddEdge(a, b, nil)
//
//	r := dot.NewRenderer()
//	png, err := r.Render(ctx, g, dot.FormatPNG)
package dot
