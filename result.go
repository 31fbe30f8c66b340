package packster

// Decision is the coarse bucket downstream tooling uses to decide how
// much human review a package needs.
type Decision string

// Decision values.
//
// Skipped is representable so that emission and reporting can round-trip
// it, but the decision engine never produces it; it's reserved for a
// curated exclude-list.
const (
	Auto    Decision = "auto"
	Verify  Decision = "verify"
	Manual  Decision = "manual"
	Skipped Decision = "skip"
)

// MappingResult is the engine's verdict for one NormalizedItem.
//
// Candidate is nil exactly when Decision is Manual with nothing found;
// otherwise Decision is a deterministic function of the candidate's
// confidence.
type MappingResult struct {
	Source    NormalizedItem `json:"source"`
	Candidate *Candidate     `json:"candidate,omitempty"`
	Decision  Decision       `json:"decision"`
	Notes     string         `json:"notes,omitempty"`
}
