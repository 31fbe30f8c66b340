// Package registry implements the curated mapping table that is the
// highest-precedence source of truth for package mappings.
package registry

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/quay/zlog"
	"gopkg.in/yaml.v3"

	"github.com/packster/packster"
)

// Defaults applied while decoding registry entries.
const (
	defaultConfidence = 0.8
	defaultReason     = "registry mapping"

	shorthandConfidence = 0.9
	shorthandReason     = "direct mapping from registry"
)

// Mapping is one entry in the registry.
type Mapping struct {
	// Source is the key this mapping was filed under.
	Source      string
	Namespace   packster.Namespace
	Name        string
	Confidence  float64
	Reason      string
	PostInstall []string
	Notes       string
}

// Candidate returns the mapping as a candidate for the decision engine.
func (m *Mapping) Candidate() packster.Candidate {
	return packster.Candidate{
		Namespace:   m.Namespace,
		Name:        m.Name,
		Confidence:  m.Confidence,
		Reason:      m.Reason,
		PostInstall: m.PostInstall,
	}
}

// Registry is a loaded mapping table.
//
// It's read-only after Load and safe to share across concurrent mapping
// calls without locking.
type Registry struct {
	Name        string
	Description string
	Version     string
	Mappings    map[string]Mapping
	Aliases     map[string]string
}

// Empty returns a usable registry with no entries.
func Empty() *Registry {
	return &Registry{
		Name:     "Default Registry",
		Version:  "1.0",
		Mappings: make(map[string]Mapping),
		Aliases:  make(map[string]string),
	}
}

// File-level YAML shapes. An entry is either a full structured record or
// a bare string meaning "map directly to this formula name".
type regFile struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Version     string               `yaml:"version"`
	Aliases     map[string]string    `yaml:"aliases"`
	Mappings    map[string]yaml.Node `yaml:"mappings"`
}

type regEntry struct {
	Namespace   string   `yaml:"target_pm"`
	Name        string   `yaml:"target_name"`
	Confidence  *float64 `yaml:"confidence"`
	Reason      string   `yaml:"reason"`
	PostInstall []string `yaml:"post_install"`
	Notes       string   `yaml:"notes"`
}

// Load reads a registry from a YAML file.
//
// A missing file is not an error: the pipeline should still run usefully
// without a curated registry, so an empty default registry is returned
// instead. A file that exists but can't be parsed is fatal.
func Load(ctx context.Context, path string) (*Registry, error) {
	ctx = zlog.ContextWithValues(ctx,
		"component", "registry/Load",
		"path", path)

	// No path means the caller never configured a registry; that's the
	// normal case, not a missing file.
	if path == "" {
		zlog.Debug(ctx).Msg("no registry configured, using empty default registry")
		return Empty(), nil
	}

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		zlog.Warn(ctx).Msg("registry file not found, using empty default registry")
		return Empty(), nil
	default:
		return nil, &packster.Error{
			Inner:   err,
			Kind:    packster.ErrConfiguration,
			Op:      "registry.Load",
			Message: fmt.Sprintf("unable to read registry %q", path),
		}
	}

	var f regFile
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return nil, &packster.Error{
			Inner:   err,
			Kind:    packster.ErrConfiguration,
			Op:      "registry.Load",
			Message: fmt.Sprintf("invalid YAML in registry %q", path),
		}
	}

	r := &Registry{
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		Aliases:     f.Aliases,
		Mappings:    make(map[string]Mapping, len(f.Mappings)),
	}
	if r.Name == "" {
		r.Name = "default"
	}
	if r.Version == "" {
		r.Version = "1.0"
	}
	if r.Aliases == nil {
		r.Aliases = make(map[string]string)
	}

	for src, node := range f.Mappings {
		m, err := decodeEntry(src, &node)
		if err != nil {
			return nil, &packster.Error{
				Inner:   err,
				Kind:    packster.ErrConfiguration,
				Op:      "registry.Load",
				Message: fmt.Sprintf("invalid mapping for %q in registry %q", src, path),
			}
		}
		r.Mappings[src] = m
	}

	zlog.Info(ctx).
		Str("registry", r.Name).
		Int("mappings", len(r.Mappings)).
		Int("aliases", len(r.Aliases)).
		Msg("loaded registry")
	return r, nil
}

func decodeEntry(src string, node *yaml.Node) (Mapping, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return Mapping{}, err
		}
		return Mapping{
			Source:     src,
			Namespace:  packster.Formula,
			Name:       name,
			Confidence: shorthandConfidence,
			Reason:     shorthandReason,
		}, nil
	case yaml.MappingNode:
		var e regEntry
		if err := node.Decode(&e); err != nil {
			return Mapping{}, err
		}
		if e.Name == "" {
			return Mapping{}, fmt.Errorf("mapping %q: missing target_name", src)
		}
		m := Mapping{
			Source:      src,
			Namespace:   packster.Namespace(e.Namespace),
			Name:        e.Name,
			Confidence:  defaultConfidence,
			Reason:      e.Reason,
			PostInstall: e.PostInstall,
			Notes:       e.Notes,
		}
		if e.Confidence != nil {
			m.Confidence = *e.Confidence
		}
		if m.Confidence < 0 || m.Confidence > 1 {
			return Mapping{}, fmt.Errorf("mapping %q: confidence %v out of range", src, m.Confidence)
		}
		if m.Namespace == "" {
			m.Namespace = packster.Formula
		}
		if m.Reason == "" {
			m.Reason = defaultReason
		}
		return m, nil
	default:
		return Mapping{}, fmt.Errorf("mapping %q: unexpected YAML node kind %v", src, node.Kind)
	}
}

// Find looks up a mapping for a source package name.
//
// Tiers, cheapest first: exact key, alias indirection, case-insensitive
// scan. The first tier to produce a match wins; no further tiers are
// tried.
func (r *Registry) Find(name string) (*Mapping, bool) {
	if m, ok := r.Mappings[name]; ok {
		return &m, true
	}
	if canonical, ok := r.Aliases[name]; ok {
		if m, ok := r.Mappings[canonical]; ok {
			return &m, true
		}
	}
	lower := strings.ToLower(name)
	for k, m := range r.Mappings {
		if strings.ToLower(k) == lower {
			return &m, true
		}
	}
	return nil, false
}

// Add files a mapping under its source name, replacing any previous
// entry.
func (r *Registry) Add(m Mapping) {
	if r.Mappings == nil {
		r.Mappings = make(map[string]Mapping)
	}
	if m.Confidence == 0 {
		m.Confidence = defaultConfidence
	}
	if m.Reason == "" {
		m.Reason = defaultReason
	}
	r.Mappings[m.Source] = m
}

// Remove deletes the mapping for the source name, reporting whether one
// was present.
func (r *Registry) Remove(source string) bool {
	if _, ok := r.Mappings[source]; !ok {
		return false
	}
	delete(r.Mappings, source)
	return true
}
