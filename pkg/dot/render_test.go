package dot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dgerrors "github.com/docforge/docgraph/pkg/errors"
)

// writeScript creates a fake layout tool so tests don't depend on a Graphviz
// installation.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-dot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func testGraph(t *testing.T) *Graph {
	t.Helper()
	reg := NewRegistry()
	g := New(reg, "Render Test")
	a := g.AddNode("a", nil)
	b := g.AddNode("b", nil)
	g.AddEdge(a, b, nil)
	return g
}

func TestRenderSuccess(t *testing.T) {
	script := writeScript(t, "cat >/dev/null\nprintf 'IMAGE-BYTES'\n")
	r := &Renderer{Command: script, Timeout: 10 * time.Second}

	data, err := r.Render(context.Background(), testGraph(t), FormatPNG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(data) != "IMAGE-BYTES" {
		t.Errorf("Render() = %q, want %q", data, "IMAGE-BYTES")
	}
}

func TestRenderFailure(t *testing.T) {
	script := writeScript(t, "cat >/dev/null\necho 'syntax error near line 3' >&2\nexit 1\n")
	r := &Renderer{Command: script, Timeout: 10 * time.Second}

	_, err := r.Render(context.Background(), testGraph(t), FormatPNG)
	if err == nil {
		t.Fatal("Render() error = nil, want render failure")
	}
	if code := dgerrors.GetCode(err); code != dgerrors.ErrCodeRenderFailed {
		t.Errorf("error code = %v, want %v", code, dgerrors.ErrCodeRenderFailed)
	}
	if !strings.Contains(err.Error(), "syntax error near line 3") {
		t.Errorf("error = %v, want it to carry the subprocess stderr", err)
	}
}

func TestRenderTimeout(t *testing.T) {
	script := writeScript(t, "sleep 10\n")
	r := &Renderer{Command: script, Timeout: 100 * time.Millisecond}

	_, err := r.Render(context.Background(), testGraph(t), FormatPNG)
	if err == nil {
		t.Fatal("Render() error = nil, want timeout")
	}
	if code := dgerrors.GetCode(err); code != dgerrors.ErrCodeRenderTimeout {
		t.Errorf("error code = %v, want %v", code, dgerrors.ErrCodeRenderTimeout)
	}
}

func TestRenderCommandNotFound(t *testing.T) {
	r := &Renderer{Command: filepath.Join(t.TempDir(), "no-such-tool")}

	_, err := r.Render(context.Background(), testGraph(t), FormatPNG)
	if err == nil {
		t.Fatal("Render() error = nil, want renderer not found")
	}
	if code := dgerrors.GetCode(err); code != dgerrors.ErrCodeRendererNotFound {
		t.Errorf("error code = %v, want %v", code, dgerrors.ErrCodeRendererNotFound)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(context.Background(), testGraph(t), Format("bmp"))
	if err == nil {
		t.Fatal("Render() error = nil, want invalid format")
	}
	if code := dgerrors.GetCode(err); code != dgerrors.ErrCodeInvalidFormat {
		t.Errorf("error code = %v, want %v", code, dgerrors.ErrCodeInvalidFormat)
	}
}

func TestRenderReceivesDOTOnStdin(t *testing.T) {
	// The script echoes stdin back, so the output is the serialized graph.
	script := writeScript(t, "cat\n")
	r := &Renderer{Command: script, Timeout: 10 * time.Second}

	g := testGraph(t)
	data, err := r.Render(context.Background(), g, FormatDOT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(data) != g.ToDOT() {
		t.Errorf("stdin = %q, want %q", data, g.ToDOT())
	}
}

func TestWriteFile(t *testing.T) {
	script := writeScript(t, "cat >/dev/null\nprintf 'PNG'\n")
	r := &Renderer{Command: script, Timeout: 10 * time.Second}

	dir := t.TempDir()
	out := filepath.Join(dir, "graph.png")
	if err := r.WriteFile(context.Background(), testGraph(t), out, FormatPNG); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "PNG" {
		t.Errorf("output = %q, want %q", data, "PNG")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1", len(entries))
	}
}

func TestWriteFileRenderFailureLeavesNoFile(t *testing.T) {
	script := writeScript(t, "exit 1\n")
	r := &Renderer{Command: script, Timeout: 10 * time.Second}

	dir := t.TempDir()
	out := filepath.Join(dir, "graph.png")
	if err := r.WriteFile(context.Background(), testGraph(t), out, FormatPNG); err == nil {
		t.Fatal("WriteFile() error = nil, want render failure")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file exists after failed render")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []Format{FormatPNG, FormatGIF, FormatJPEG, FormatSVG, FormatPDF, FormatDOT} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := ValidateFormat("tiff"); err == nil {
		t.Error("ValidateFormat(\"tiff\") = nil, want error")
	}
}
