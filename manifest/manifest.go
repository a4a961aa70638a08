// Package manifest assembles accumulating chains from YAML documents. A
// manifest names the chain and lists unit names in invocation order; names
// are resolved against a Registry populated by the caller. Contract
// feasibility stays a core concern and is still checked when the chain runs.
package manifest

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"

	"github.com/alt-coder/stepchain-go/core"
)

// Registry holds named units available to manifests.
type Registry struct {
	units map[string]*core.Unit
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]*core.Unit)}
}

// Add registers units under their own names. Registering a second unit with
// an already-taken name is an error.
func (r *Registry) Add(units ...*core.Unit) error {
	for _, u := range units {
		if u == nil {
			return fmt.Errorf("registry: cannot register a nil unit")
		}
		name := u.Name()
		if name == "" {
			return fmt.Errorf("registry: cannot register a unit without a name")
		}
		if _, exists := r.units[name]; exists {
			return fmt.Errorf("registry: unit %q already registered", name)
		}
		r.units[name] = u
	}
	return nil
}

// Get returns the unit registered under name.
func (r *Registry) Get(name string) (*core.Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Manifest is a YAML-declared accumulating chain.
type Manifest struct {
	Name  string   `yaml:"name"`
	Units []string `yaml:"units"`
}

// Load parses and validates a manifest document.
func Load(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("manifest: name is required")
	}
	if len(m.Units) == 0 {
		return nil, fmt.Errorf("manifest %q: at least one unit is required", m.Name)
	}
	seen := make(map[string]bool, len(m.Units))
	for _, name := range m.Units {
		if name == "" {
			return nil, fmt.Errorf("manifest %q: empty unit name", m.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("manifest %q: unit %q listed twice", m.Name, name)
		}
		seen[name] = true
	}
	return &m, nil
}

// Build resolves the manifest's unit names against the registry and returns
// the assembled chain.
func (m *Manifest) Build(reg *Registry) (*core.Chain, error) {
	chain := core.NewChain()
	for _, name := range m.Units {
		u, ok := reg.Get(name)
		if !ok {
			return nil, fmt.Errorf("manifest %q: unknown unit %q", m.Name, name)
		}
		chain.Register(u)
	}
	return chain, nil
}
