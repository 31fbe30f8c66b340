package packster

// Namespace is the target ecosystem a candidate lives in.
//
// Homebrew formulae and casks are the namespaces this tool can verify;
// language ecosystems pass through unverified, so the type deliberately
// admits values outside the constants below.
type Namespace string

// Verifiable target namespaces.
const (
	Formula Namespace = "brew"
	Cask    Namespace = "cask"
)

// Verifiable reports whether an existence check is defined for the
// namespace. Unrecognized namespaces are passed through validation
// untouched rather than treated as errors.
func (n Namespace) Verifiable() bool {
	switch n {
	case Formula, Cask:
		return true
	}
	return false
}

// Candidate is a single proposed mapping for a source package.
type Candidate struct {
	// Namespace the target name lives in.
	Namespace Namespace `json:"target_pm"`
	// Name of the package in the target namespace.
	Name string `json:"target_name"`
	// Confidence in [0, 1].
	Confidence float64 `json:"confidence"`
	// Reason is a human-readable provenance string.
	Reason string `json:"reason,omitempty"`
	// PostInstall commands to run after installing the target package.
	PostInstall []string `json:"post_install,omitempty"`
}

// Downgrade returns a copy with the confidence halved and clamped at 0.
//
// Validation uses this for candidates that fail an existence check: the
// guess is kept, documented, and distrusted instead of being deleted.
func (c Candidate) Downgrade() Candidate {
	d := c
	d.Confidence = c.Confidence * 0.5
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	return d
}
