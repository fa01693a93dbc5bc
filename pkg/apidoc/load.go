package apidoc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/docforge/docgraph/pkg/errors"
)

// Model is the serialized API model consumed by the CLI and preview server:
// the root modules and base classes to graph, plus the cross-reference link
// table used to resolve href placeholders.
type Model struct {
	Modules []*Module         `json:"modules,omitempty"`
	Classes []*Class          `json:"classes,omitempty"`
	Links   map[string]string `json:"links,omitempty"`
}

// Linker returns a [MapLinker] over the model's link table.
func (m *Model) Linker() MapLinker { return MapLinker(m.Links) }

// Index returns an [Index] over the model's module trees.
func (m *Model) Index() *Index { return NewIndex(m.Modules...) }

// Load decodes a JSON model document. Every module and class in the document
// must carry a canonical name; a missing name is an INVALID_MODEL error.
func Load(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model")
	}
	for _, mod := range m.Modules {
		if err := validateModule(mod); err != nil {
			return nil, err
		}
	}
	for _, cls := range m.Classes {
		if err := validateClass(cls); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// LoadFile reads and decodes a JSON model file.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func validateModule(m *Module) error {
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidModel, "module with empty canonical name")
	}
	for _, sub := range m.Submodules {
		if err := validateModule(sub); err != nil {
			return err
		}
	}
	return nil
}

func validateClass(c *Class) error {
	if c.Name == "" {
		return errors.New(errors.ErrCodeInvalidModel, "class with empty canonical name")
	}
	for _, sub := range c.Subclasses {
		if err := validateClass(sub); err != nil {
			return err
		}
	}
	return nil
}
