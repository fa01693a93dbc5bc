package dot

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"sync"
)

// ErrDanglingEdge is returned by [Graph.Validate] when an edge references a
// node that is not part of the graph's node sequence. Serializing such a
// graph would emit an edge pointing at a node the output never declares.
var ErrDanglingEdge = errors.New("edge references a node outside the graph")

// Attrs is an open-ended set of DOT attributes (label, shape, color, href, ...).
// Keys and values are emitted into the output with quoting and escaping but
// are otherwise not validated.
type Attrs map[string]string

// Node is one drawable entity in a graph. The numeric ID is allocated by the
// owning graph's [Registry] at creation time and never changes; no two nodes
// created through the same registry share an ID.
type Node struct {
	ID    int
	Attrs Attrs
}

// Edge is a directed relationship between two nodes. Both endpoints must
// belong to the same graph; the edge references them but does not own them.
type Edge struct {
	Start *Node
	End   *Node
	Attrs Attrs
}

// nonWord matches every character that is replaced by an underscore when a
// graph title is turned into a UID.
var nonWord = regexp.MustCompile(`\W`)

// Registry allocates node IDs and graph UIDs for one documentation run.
// UIDs issued by a registry are unique for the registry's lifetime, so a
// graph's UID can double as an output filename without clobbering earlier
// graphs from the same run. Registry is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	uids   map[string]struct{}
	nextID int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{uids: make(map[string]struct{})}
}

// nodeID returns the next process-unique node identifier.
func (r *Registry) nodeID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	return id
}

// claimUID derives a UID from title (lowercased, non-word characters replaced
// by underscores) and disambiguates collisions with a _2, _3, ... suffix.
// An empty title degenerates to an empty base UID; disambiguation still applies.
func (r *Registry) claimUID(title string) string {
	uid := strings.ToLower(nonWord.ReplaceAllString(title, "_"))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.uids[uid]; taken {
		n := 2
		for {
			candidate := fmt.Sprintf("%s_%d", uid, n)
			if _, taken := r.uids[candidate]; !taken {
				uid = candidate
				break
			}
			n++
		}
	}
	r.uids[uid] = struct{}{}
	return uid
}

// Graph is one directed graph to be rendered. It owns its nodes and edges,
// carries default attribute sets applied to all nodes and edges, and an
// optional body fragment that is emitted verbatim into the DOT output.
//
// A graph is built once, optionally passed through [Graph.Link], then
// serialized or rendered; it holds no further state after rendering.
type Graph struct {
	Title string
	UID   string
	Body  string

	NodeDefaults Attrs
	EdgeDefaults Attrs

	nodes []*Node
	edges []*Edge
	reg   *Registry
}

// Option configures a graph at construction time.
type Option func(*Graph)

// WithBody sets the raw body fragment appended verbatim to the DOT output.
func WithBody(body string) Option {
	return func(g *Graph) { g.Body = body }
}

// WithNodeDefaults sets the default attributes applied to all nodes.
func WithNodeDefaults(a Attrs) Option {
	return func(g *Graph) { g.NodeDefaults = maps.Clone(a) }
}

// WithEdgeDefaults sets the default attributes applied to all edges.
func WithEdgeDefaults(a Attrs) Option {
	return func(g *Graph) { g.EdgeDefaults = maps.Clone(a) }
}

// New creates an empty graph with the given title. The graph's UID is claimed
// from reg immediately, and all nodes added later draw their IDs from reg.
func New(reg *Registry, title string, opts ...Option) *Graph {
	g := &Graph{
		Title:        title,
		UID:          reg.claimUID(title),
		NodeDefaults: Attrs{},
		EdgeDefaults: Attrs{},
		reg:          reg,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode appends a new node with a fresh ID. A non-empty label is stored
// under the reserved "label" attribute key. The attrs map is copied.
func (g *Graph) AddNode(label string, attrs Attrs) *Node {
	n := &Node{ID: g.reg.nodeID(), Attrs: cloneAttrs(attrs)}
	if label != "" {
		n.Attrs["label"] = label
	}
	g.nodes = append(g.nodes, n)
	return n
}

// AddEdge appends a directed edge from start to end. Both nodes should
// already belong to this graph; use [Graph.Validate] to check before
// serializing a graph assembled by hand. The attrs map is copied.
func (g *Graph) AddEdge(start, end *Node, attrs Attrs) *Edge {
	e := &Edge{Start: start, End: end, Attrs: cloneAttrs(attrs)}
	g.edges = append(g.edges, e)
	return e
}

// AppendBody appends s to the graph's verbatim body fragment.
func (g *Graph) AppendBody(s string) {
	g.Body += s
}

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the graph's edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Validate checks that every edge's endpoints are present in the node
// sequence. The builder functions guarantee this by construction; callers
// assembling graphs by hand should validate before rendering. Returns
// ErrDanglingEdge (wrapped with the offending edge) on violation.
func (g *Graph) Validate() error {
	known := make(map[*Node]struct{}, len(g.nodes))
	for _, n := range g.nodes {
		known[n] = struct{}{}
	}
	for _, e := range g.edges {
		if _, ok := known[e.Start]; !ok {
			return fmt.Errorf("edge node%d -> node%d: start: %w", e.Start.ID, e.End.ID, ErrDanglingEdge)
		}
		if _, ok := known[e.End]; !ok {
			return fmt.Errorf("edge node%d -> node%d: end: %w", e.Start.ID, e.End.ID, ErrDanglingEdge)
		}
	}
	return nil
}

func cloneAttrs(a Attrs) Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}
