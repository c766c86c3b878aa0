package render

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"resume-editor/resume/model"
)

var (
	// ErrUnknownTemplate is returned when projecting with an unregistered template id.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrDuplicateTemplate is returned when registering an id twice.
	ErrDuplicateTemplate = errors.New("template already registered")
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Template describes a registered template.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type catalogFile struct {
	Templates []Style `yaml:"templates"`
}

// Registry maps template ids to formatters.
type Registry struct {
	mu         sync.RWMutex
	order      []string
	templates  map[string]Template
	formatters map[string]Formatter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates:  make(map[string]Template),
		formatters: make(map[string]Formatter),
	}
}

// NewDefaultRegistry returns a registry holding the built-in catalog.
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistryFromCatalog(builtinCatalog)
}

// LoadRegistry reads a catalog file, or the built-in catalog when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return NewDefaultRegistry()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	return NewRegistryFromCatalog(data)
}

// NewRegistryFromCatalog parses a YAML catalog and registers one formatter per style.
func NewRegistryFromCatalog(data []byte) (*Registry, error) {
	styles, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, st := range styles {
		if err := r.Register(Template{ID: st.ID, Name: st.Name, Description: st.Description}, st.Formatter()); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ParseCatalog decodes and validates catalog styles.
func ParseCatalog(data []byte) ([]Style, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, errors.New("template catalog is empty")
	}
	for i := range file.Templates {
		file.Templates[i].ApplyDefaults()
		if err := file.Templates[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Templates, nil
}

// Register adds a formatter under t.ID.
func (r *Registry) Register(t Template, f Formatter) error {
	if t.ID == "" || f == nil {
		return errors.New("template id and formatter are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[t.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTemplate, t.ID)
	}
	r.order = append(r.order, t.ID)
	r.templates[t.ID] = t
	r.formatters[t.ID] = f
	return nil
}

// Lookup returns the formatter registered under id.
func (r *Registry) Lookup(id string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[id]
	return f, ok
}

// Templates lists registered templates in registration order.
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out
}

// Project formats doc with the template registered under templateID.
// doc is only read.
func (r *Registry) Project(doc *model.Document, templateID string) (RenderableDocument, error) {
	f, ok := r.Lookup(templateID)
	if !ok {
		return RenderableDocument{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	out := f(BuildView(doc))
	out.TemplateID = templateID
	return out, nil
}
