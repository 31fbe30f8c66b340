package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type saveEntry struct {
	Namespace   string   `yaml:"target_pm"`
	Name        string   `yaml:"target_name"`
	Confidence  float64  `yaml:"confidence"`
	Reason      string   `yaml:"reason,omitempty"`
	PostInstall []string `yaml:"post_install,omitempty"`
	Notes       string   `yaml:"notes,omitempty"`
}

type saveFile struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description,omitempty"`
	Version     string               `yaml:"version"`
	Aliases     map[string]string    `yaml:"aliases,omitempty"`
	Mappings    map[string]saveEntry `yaml:"mappings"`
}

// Save writes the registry to a YAML file in the structured entry form.
func (r *Registry) Save(path string) error {
	f := saveFile{
		Name:        r.Name,
		Description: r.Description,
		Version:     r.Version,
		Aliases:     r.Aliases,
		Mappings:    make(map[string]saveEntry, len(r.Mappings)),
	}
	for src, m := range r.Mappings {
		f.Mappings[src] = saveEntry{
			Namespace:   string(m.Namespace),
			Name:        m.Name,
			Confidence:  m.Confidence,
			Reason:      m.Reason,
			PostInstall: m.PostInstall,
			Notes:       m.Notes,
		}
	}
	buf, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("registry: unable to marshal %q: %w", r.Name, err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("registry: unable to write %q: %w", path, err)
	}
	return nil
}

// Stats summarizes the registry contents.
type Stats struct {
	Mappings    int
	Aliases     int
	ByNamespace map[string]int
	// Confidence bands: high ≥0.9, medium ≥0.6, low otherwise.
	High, Medium, Low int
}

// Stats computes summary counts over the registry.
func (r *Registry) Stats() Stats {
	s := Stats{
		Mappings:    len(r.Mappings),
		Aliases:     len(r.Aliases),
		ByNamespace: make(map[string]int),
	}
	for _, m := range r.Mappings {
		s.ByNamespace[string(m.Namespace)]++
		switch {
		case m.Confidence >= 0.9:
			s.High++
		case m.Confidence >= 0.6:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}
