package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"os"

	"github.com/markwash/meta/internal/domain/shared"
	"gopkg.in/yaml.v3"
)

// Schema describes the model and proxy types of one Go package for which
// typed wrappers are generated. The runtime types themselves are declared
// by hand in the same package and referenced by variable name.
type Schema struct {
	Package string      `yaml:"package"`
	Models  []ModelSpec `yaml:"models"`
	Proxies []ProxySpec `yaml:"proxies"`
}

// ModelSpec describes one model type.
type ModelSpec struct {
	Name    string       `yaml:"name"`
	Var     string       `yaml:"var"`
	Extends []string     `yaml:"extends"`
	Fields  []FieldSpec  `yaml:"fields"`
	Methods []MethodSpec `yaml:"methods"`
}

// FieldSpec describes a declared property and the Go type its values have.
// Go overrides the generated accessor name.
type FieldSpec struct {
	Name string `yaml:"name"`
	Go   string `yaml:"go"`
	Type string `yaml:"type"`
}

// MethodSpec describes a declared method. An empty Returns means the method
// only reports an error.
type MethodSpec struct {
	Name    string   `yaml:"name"`
	Go      string   `yaml:"go"`
	Params  []string `yaml:"params"`
	Returns string   `yaml:"returns"`
}

// ProxySpec describes a proxy type over one of the schema's models.
type ProxySpec struct {
	Name  string `yaml:"name"`
	Var   string `yaml:"var"`
	Wraps string `yaml:"wraps"`
}

// LoadSchema reads and validates a schema file
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a YAML schema, fills defaults and validates it
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: parse schema: %v", shared.ErrInvalidInput, err)
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) applyDefaults() {
	for i := range s.Models {
		m := &s.Models[i]
		if m.Var == "" {
			m.Var = m.Name + "Type"
		}
		for j := range m.Fields {
			if m.Fields[j].Type == "" {
				m.Fields[j].Type = "any"
			}
		}
	}
	for i := range s.Proxies {
		if s.Proxies[i].Var == "" {
			s.Proxies[i].Var = s.Proxies[i].Name + "Type"
		}
	}
}

// Model returns the model spec with the given name
func (s *Schema) Model(name string) (*ModelSpec, bool) {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i], true
		}
	}
	return nil, false
}

func (s *Schema) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", shared.ErrInvalidConfiguration, fmt.Sprintf(format, args...)))
	}

	if !token.IsIdentifier(s.Package) {
		fail("package %q is not a valid identifier", s.Package)
	}

	names := make(map[string]bool)
	declare := func(kind, name string) {
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			fail("%s name %q must be an exported identifier", kind, name)
			return
		}
		if names[name] {
			fail("%s name %q declared twice", kind, name)
		}
		names[name] = true
	}

	for _, m := range s.Models {
		declare("model", m.Name)
		declare("model", m.Name+"API")
		if !token.IsIdentifier(m.Var) {
			fail("model %s: var %q is not a valid identifier", m.Name, m.Var)
		}
		for _, base := range m.Extends {
			if _, ok := s.Model(base); !ok {
				fail("model %s extends unknown model %q", m.Name, base)
			}
		}
		for _, f := range m.Fields {
			if f.Name == "" {
				fail("model %s: field with empty name", m.Name)
			}
			if f.Go != "" && (!token.IsIdentifier(f.Go) || !token.IsExported(f.Go)) {
				fail("model %s: field %s: go name %q must be an exported identifier", m.Name, f.Name, f.Go)
			}
		}
		for _, fn := range m.Methods {
			if fn.Name == "" {
				fail("model %s: method with empty name", m.Name)
			}
			if fn.Go != "" && (!token.IsIdentifier(fn.Go) || !token.IsExported(fn.Go)) {
				fail("model %s: method %s: go name %q must be an exported identifier", m.Name, fn.Name, fn.Go)
			}
		}
	}
	for _, p := range s.Proxies {
		declare("proxy", p.Name)
		if !token.IsIdentifier(p.Var) {
			fail("proxy %s: var %q is not a valid identifier", p.Name, p.Var)
		}
		if _, ok := s.Model(p.Wraps); !ok {
			fail("proxy %s wraps unknown model %q", p.Name, p.Wraps)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, m := range s.Models {
		if s.cyclic(m.Name, map[string]bool{}) {
			fail("model %s inherits from itself", m.Name)
		}
	}
	return errors.Join(errs...)
}

// cyclic reports whether name reaches itself through extends.
func (s *Schema) cyclic(name string, path map[string]bool) bool {
	if path[name] {
		return true
	}
	path[name] = true
	defer delete(path, name)

	m, _ := s.Model(name)
	for _, base := range m.Extends {
		if s.cyclic(base, path) {
			return true
		}
	}
	return false
}

// ancestors returns every model name m inherits from, depth first in
// extends order, each once.
func (s *Schema) ancestors(m *ModelSpec) []*ModelSpec {
	var out []*ModelSpec
	seen := map[string]bool{m.Name: true}
	var visit func(*ModelSpec)
	visit = func(cur *ModelSpec) {
		for _, name := range cur.Extends {
			if seen[name] {
				continue
			}
			seen[name] = true
			base, _ := s.Model(name)
			out = append(out, base)
			visit(base)
		}
	}
	visit(m)
	return out
}
