package dot

import (
	"strings"
	"testing"
)

func TestToDOTEmpty(t *testing.T) {
	reg := NewRegistry()
	g := New(reg, "Empty Graph")

	want := "digraph empty_graph {\n" +
		"node []\n" +
		"edge []\n" +
		"/* Nodes */\n" +
		"/* Edges */\n" +
		"}\n"
	if got := g.ToDOT(); got != want {
		t.Errorf("ToDOT() =\n%s\nwant:\n%s", got, want)
	}
}

func TestToDOT(t *testing.T) {
	reg := NewRegistry()
	g := New(reg, "Full",
		WithBody("rankdir=LR\n"),
		WithNodeDefaults(Attrs{"shape": "box"}),
		WithEdgeDefaults(Attrs{"sametail": "true"}))

	a := g.AddNode("pkg.a", nil)
	b := g.AddNode("pkg.b", Attrs{"href": "pkg.b.html"})
	g.AddEdge(a, b, Attrs{"style": "dashed"})

	got := g.ToDOT()
	wantLines := []string{
		"digraph full {",
		`node [shape="box"]`,
		`edge [sametail="true"]`,
		"rankdir=LR",
		"/* Nodes */",
		`node0 [label="pkg.a"]`,
		`node1 [label="pkg.b",href="pkg.b.html"]`,
		"/* Edges */",
		`node0 -> node1 [style="dashed"]`,
		"}",
	}
	if want := strings.Join(wantLines, "\n") + "\n"; got != want {
		t.Errorf("ToDOT() =\n%s\nwant:\n%s", got, want)
	}
}

func TestToDOTBodyNewline(t *testing.T) {
	reg := NewRegistry()
	g := New(reg, "Body", WithBody("rankdir=RL"))

	// A body without a trailing newline must not run into the node marker.
	if got := g.ToDOT(); !strings.Contains(got, "rankdir=RL\n/* Nodes */") {
		t.Errorf("ToDOT() = %q, body should be newline-terminated", got)
	}
}

func TestAttrsPairList(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attrs
		want  string
	}{
		{"Empty", Attrs{}, ""},
		{"Single", Attrs{"shape": "box"}, `shape="box"`},
		{
			name:  "LabelFirstRestSorted",
			attrs: Attrs{"shape": "box", "label": "x", "color": "red"},
			want:  `label="x",color="red",shape="box"`,
		},
		{
			name:  "EscapesQuotes",
			attrs: Attrs{"label": `say "hi"`},
			want:  `label="say \"hi\""`,
		},
		{
			name:  "EscapesNewlines",
			attrs: Attrs{"label": "two\nlines"},
			want:  `label="two\nlines"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attrs.pairList(); got != tt.want {
				t.Errorf("pairList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttrsBracketed(t *testing.T) {
	if got := (Attrs{}).bracketed(); got != "" {
		t.Errorf("empty bracketed() = %q, want empty", got)
	}
	if got := (Attrs{"a": "1"}).bracketed(); got != ` [a="1"]` {
		t.Errorf("bracketed() = %q, want %q", got, ` [a="1"]`)
	}
}
