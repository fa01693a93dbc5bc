package apidoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	dgerrors "github.com/docforge/docgraph/pkg/errors"
)

const sampleModel = `{
	"modules": [
		{
			"name": "docforge",
			"submodules": [
				{"name": "docforge.model", "imports": ["docforge.util"]}
			]
		}
	],
	"classes": [
		{"name": "docforge.model.APIDoc", "subclasses": [{"name": "docforge.model.ModuleDoc"}]}
	],
	"links": {"docforge": "docforge.html"}
}`

func TestLoad(t *testing.T) {
	m, err := Load(strings.NewReader(sampleModel))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(m.Modules) != 1 || m.Modules[0].Name != "docforge" {
		t.Fatalf("Modules = %+v, want one root named docforge", m.Modules)
	}
	if got := m.Modules[0].Submodules[0].Imports; len(got) != 1 || got[0] != "docforge.util" {
		t.Errorf("Imports = %v, want [docforge.util]", got)
	}
	if len(m.Classes) != 1 || len(m.Classes[0].Subclasses) != 1 {
		t.Errorf("Classes = %+v, want one base with one subclass", m.Classes)
	}
	if got := m.Linker().URLFor("docforge"); got != "docforge.html" {
		t.Errorf("Linker().URLFor(docforge) = %q, want %q", got, "docforge.html")
	}
	if got := m.Index().Len(); got != 2 {
		t.Errorf("Index().Len() = %d, want 2", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"BadJSON", `{"modules": [`},
		{"UnnamedModule", `{"modules": [{"name": ""}]}`},
		{"UnnamedSubmodule", `{"modules": [{"name": "a", "submodules": [{"name": ""}]}]}`},
		{"UnnamedClass", `{"classes": [{"name": ""}]}`},
		{"UnnamedSubclass", `{"classes": [{"name": "a.B", "subclasses": [{"name": ""}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Load() error = nil, want invalid model")
			}
			if code := dgerrors.GetCode(err); code != dgerrors.ErrCodeInvalidModel {
				t.Errorf("error code = %v, want %v", code, dgerrors.ErrCodeInvalidModel)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(sampleModel), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(m.Modules) != 1 {
		t.Errorf("Modules = %+v, want one root", m.Modules)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("LoadFile() error = nil, want file not found")
	}
	if code := dgerrors.GetCode(err); code != dgerrors.ErrCodeFileNotFound {
		t.Errorf("error code = %v, want %v", code, dgerrors.ErrCodeFileNotFound)
	}
}

func TestMapLinker(t *testing.T) {
	l := MapLinker{"a": "a.html"}
	if got := l.URLFor("a"); got != "a.html" {
		t.Errorf("URLFor(a) = %q, want %q", got, "a.html")
	}
	if got := l.URLFor("b"); got != "" {
		t.Errorf("URLFor(b) = %q, want empty", got)
	}
}
