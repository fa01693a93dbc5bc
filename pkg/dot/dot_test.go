package dot

import (
	"strings"
	"testing"
)

func TestRegistryUIDs(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   []string
	}{
		{
			name:   "Distinct",
			titles: []string{"Package Tree", "Class Hierarchy"},
			want:   []string{"package_tree", "class_hierarchy"},
		},
		{
			name:   "Colliding",
			titles: []string{"My Graph!", "My Graph!", "My Graph!"},
			want:   []string{"my_graph_", "my_graph__2", "my_graph__3"},
		},
		{
			name:   "EmptyTitle",
			titles: []string{"", ""},
			want:   []string{"", "_2"},
		},
		{
			name:   "NonWordRuns",
			titles: []string{"a - b"},
			want:   []string{"a___b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			for i, title := range tt.titles {
				g := New(reg, title)
				if g.UID != tt.want[i] {
					t.Errorf("title %q: UID = %q, want %q", title, g.UID, tt.want[i])
				}
			}
		})
	}
}

func TestRegistryUIDsPairwiseDistinct(t *testing.T) {
	reg := NewRegistry()
	titles := []string{"G", "G", "g", "G!", "G?", "", "_"}
	seen := make(map[string]string)
	for _, title := range titles {
		g := New(reg, title)
		if prev, dup := seen[g.UID]; dup {
			t.Errorf("titles %q and %q share UID %q", prev, title, g.UID)
		}
		seen[g.UID] = title
	}
}

func TestNodeIDsMonotonic(t *testing.T) {
	reg := NewRegistry()
	g1 := New(reg, "First")
	g2 := New(reg, "Second")

	// IDs are unique across all graphs sharing a registry.
	a := g1.AddNode("a", nil)
	b := g2.AddNode("b", nil)
	c := g1.AddNode("c", nil)

	if a.ID != 0 || b.ID != 1 || c.ID != 2 {
		t.Errorf("IDs = %d, %d, %d, want 0, 1, 2", a.ID, b.ID, c.ID)
	}
}

func TestAddNode(t *testing.T) {
	reg := NewRegistry()
	g := New(reg, "Nodes")

	n := g.AddNode("my.module", Attrs{"shape": "ellipse"})
	if n.Attrs["label"] != "my.module" {
		t.Errorf("label = %q, want %q", n.Attrs["label"], "my.module")
	}
	if n.Attrs["shape"] != "ellipse" {
		t.Errorf("shape = %q, want %q", n.Attrs["shape"], "ellipse")
	}

	// The supplied attrs map is copied, not retained.
	src := Attrs{"color": "red"}
	m := g.AddNode("", src)
	src["color"] = "blue"
	if m.Attrs["color"] != "red" {
		t.Errorf("attrs not copied: color = %q, want %q", m.Attrs["color"], "red")
	}
	if _, ok := m.Attrs["label"]; ok {
		t.Error("empty label should not set a label attribute")
	}
}

func TestValidate(t *testing.T) {
	reg := NewRegistry()
	g := New(reg, "Valid")
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)
	g.AddEdge(a, b, nil)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	other := New(reg, "Other")
	stray := other.AddNode("stray", nil)
	g.AddEdge(a, stray, nil)

	err := g.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for dangling edge")
	}
	if !strings.Contains(err.Error(), "outside the graph") {
		t.Errorf("Validate() error = %v, want dangling edge error", err)
	}
}
