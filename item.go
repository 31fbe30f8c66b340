// Package packster holds the shared data model for collecting installed
// packages on a Linux host and proposing equivalents on macOS.
package packster

// PackageManager identifies a supported source package manager.
type PackageManager string

// Supported source package managers.
const (
	APT   PackageManager = "apt"
	Pip   PackageManager = "pip"
	NPM   PackageManager = "npm"
	Cargo PackageManager = "cargo"
	Gem   PackageManager = "gem"
)

// Known reports whether the value is one of the supported package managers.
func (pm PackageManager) Known() bool {
	switch pm {
	case APT, Pip, NPM, Cargo, Gem:
		return true
	}
	return false
}

// Namespace is the target namespace packages from this manager land in
// when they pass through unmapped. System packages become Homebrew
// formulae; language ecosystems exist unchanged on the target.
func (pm PackageManager) Namespace() Namespace {
	if pm == APT {
		return Formula
	}
	return Namespace(pm)
}

// NormalizedItem is a package as it exists on the source system, after the
// collection layer has normalized it.
//
// Values are treated as immutable once constructed; pipeline stages that
// want to change one make a copy instead.
type NormalizedItem struct {
	// PM is the package manager this item was collected from.
	PM PackageManager `json:"package_manager"`
	// Name is the canonical name in that manager's namespace.
	Name string `json:"name"`
	// Version is the installed version, if known.
	Version string `json:"version,omitempty"`
	// Category is an optional coarse classification.
	Category string `json:"category,omitempty"`
	// Metadata is an open-ended bag threaded through the pipeline, e.g.
	// install scope. It's never inspected by key in the core logic.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// WithCategory returns a copy of the item with the category set.
func (i NormalizedItem) WithCategory(c string) NormalizedItem {
	n := i
	n.Category = c
	n.Metadata = cloneMeta(i.Metadata)
	return n
}

// WithMetadata returns a copy of the item with the key added to the
// metadata bag.
func (i NormalizedItem) WithMetadata(k, v string) NormalizedItem {
	n := i
	n.Metadata = cloneMeta(i.Metadata)
	if n.Metadata == nil {
		n.Metadata = make(map[string]string, 1)
	}
	n.Metadata[k] = v
	return n
}

func cloneMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
