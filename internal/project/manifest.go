// Package project builds and serves the project symbol table: every model,
// seed, declared source, and macro known to a dbt-style project. The table
// is an immutable snapshot; rebuilds produce a fresh Manifest that is
// swapped in wholesale so readers never observe a partially refreshed view.
package project

import "sync"

// MacroDef locates a macro definition. Line is zero-based.
type MacroDef struct {
	Path string
	Line int
}

// Manifest is one immutable snapshot of the project symbol table. Models
// and seeds map name to file path, sources map "source.table" to the
// declaring yml file, macros map name to their definition site.
type Manifest struct {
	Root    string
	Name    string
	Models  map[string]string
	Seeds   map[string]string
	Sources map[string]string
	Macros  map[string]MacroDef
}

// ResolveModel returns the path backing a model reference. Seeds satisfy
// model references too.
func (m *Manifest) ResolveModel(name string) (string, bool) {
	if path, ok := m.Models[name]; ok {
		return path, true
	}
	path, ok := m.Seeds[name]
	return path, ok
}

// IsSeed reports whether name resolves to a seed rather than a model.
func (m *Manifest) IsSeed(name string) bool {
	_, isModel := m.Models[name]
	_, isSeed := m.Seeds[name]
	return isSeed && !isModel
}

// Registry guards the current manifest snapshot. Readers take a shared
// lock; Swap publishes a fully built replacement under the exclusive lock.
type Registry struct {
	mu      sync.RWMutex
	current *Manifest
}

// Snapshot returns the current manifest, or nil when no project is loaded.
func (r *Registry) Snapshot() *Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Swap publishes m as the current snapshot.
func (r *Registry) Swap(m *Manifest) {
	r.mu.Lock()
	r.current = m
	r.mu.Unlock()
}
