package dot

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// attrEscaper sanitizes attribute values for DOT output. Double quotes and
// raw newlines would otherwise terminate the quoted value and corrupt the
// document; backslashes pass through so DOT escapes like \l keep working.
var attrEscaper = strings.NewReplacer(
	`"`, `\"`,
	"\n", `\n`,
	"\r", "",
)

// ToDOT returns the DOT document describing the graph: a header naming the
// graph by its UID, default-attribute lines for nodes and edges, the body
// fragment verbatim, then one line per node and one line per edge.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", g.UID)
	fmt.Fprintf(&buf, "node [%s]\n", g.NodeDefaults.pairList())
	fmt.Fprintf(&buf, "edge [%s]\n", g.EdgeDefaults.pairList())

	if g.Body != "" {
		buf.WriteString(g.Body)
		if !strings.HasSuffix(g.Body, "\n") {
			buf.WriteByte('\n')
		}
	}

	buf.WriteString("/* Nodes */\n")
	for _, n := range g.nodes {
		fmt.Fprintf(&buf, "node%d%s\n", n.ID, n.Attrs.bracketed())
	}

	buf.WriteString("/* Edges */\n")
	for _, e := range g.edges {
		fmt.Fprintf(&buf, "node%d -> node%d%s\n", e.Start.ID, e.End.ID, e.Attrs.bracketed())
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pairList renders the attribute set as comma-joined key="value" pairs.
// The label attribute always comes first; remaining keys are sorted so the
// output is deterministic.
func (a Attrs) pairList() string {
	if len(a) == 0 {
		return ""
	}

	keys := make([]string, 0, len(a))
	for k := range a {
		if k != "label" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	if _, ok := a["label"]; ok {
		keys = append([]string{"label"}, keys...)
	}

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=\"%s\"", k, attrEscaper.Replace(a[k]))
	}
	return strings.Join(pairs, ",")
}

// bracketed renders the attribute set as a bracketed suffix for a node or
// edge line, or an empty string when there are no attributes.
func (a Attrs) bracketed() string {
	if len(a) == 0 {
		return ""
	}
	return " [" + a.pairList() + "]"
}
