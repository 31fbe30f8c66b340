package heuristic

import (
	"regexp"
	"strings"

	"github.com/packster/packster"
)

var versionSuffix = regexp.MustCompile(`^(.+)-(\d+\.\d+)$`)

// CommonPatterns proposes mappings based on naming conventions: language
// ecosystem prefixes, binary distribution suffixes, and trailing dotted
// versions.
//
// Pure; an empty result is the normal outcome for most names.
func CommonPatterns(name string) []packster.Candidate {
	var out []packster.Candidate

	if base, ok := strings.CutPrefix(name, "python3-"); ok && base != "" {
		out = append(out, packster.Candidate{
			Namespace:  packster.Formula,
			Name:       base,
			Confidence: 0.7,
			Reason:     "Python package: " + base,
		})
	}
	if base, ok := strings.CutSuffix(name, "-bin"); ok && base != "" {
		out = append(out, packster.Candidate{
			Namespace:  packster.Formula,
			Name:       base,
			Confidence: 0.6,
			Reason:     "binary package: " + base,
		})
	}
	if m := versionSuffix.FindStringSubmatch(name); m != nil {
		out = append(out, packster.Candidate{
			Namespace:  packster.Formula,
			Name:       m[1],
			Confidence: 0.5,
			Reason:     "versioned package: " + m[1],
		})
	}

	return out
}

// Category buckets. Intentionally coarse: a safety net for a handful of
// extremely common tools, not a classifier.
var categoryBuckets = []struct {
	category string
	keywords []string
	targets  map[string]packster.Candidate
}{
	{
		category: "databases",
		keywords: []string{"postgres", "mysql", "sqlite", "redis"},
		targets: map[string]packster.Candidate{
			"postgres": {Namespace: packster.Formula, Name: "postgresql", Confidence: 0.8, Reason: "PostgreSQL database"},
			"mysql":    {Namespace: packster.Formula, Name: "mysql", Confidence: 0.8, Reason: "MySQL database"},
			"sqlite":   {Namespace: packster.Formula, Name: "sqlite", Confidence: 0.8, Reason: "SQLite database"},
			"redis":    {Namespace: packster.Formula, Name: "redis", Confidence: 0.8, Reason: "Redis database"},
		},
	},
	{
		category: "development",
		keywords: []string{"git", "vim", "tmux", "htop"},
		targets: map[string]packster.Candidate{
			"git":  {Namespace: packster.Formula, Name: "git", Confidence: 0.9, Reason: "Git version control"},
			"vim":  {Namespace: packster.Formula, Name: "vim", Confidence: 0.9, Reason: "Vim editor"},
			"tmux": {Namespace: packster.Formula, Name: "tmux", Confidence: 0.9, Reason: "tmux terminal multiplexer"},
			"htop": {Namespace: packster.Formula, Name: "htop", Confidence: 0.9, Reason: "htop process viewer"},
		},
	},
	{
		category: "utilities",
		keywords: []string{"curl", "wget", "jq", "ripgrep"},
		targets: map[string]packster.Candidate{
			"curl":    {Namespace: packster.Formula, Name: "curl", Confidence: 0.9, Reason: "cURL HTTP client"},
			"wget":    {Namespace: packster.Formula, Name: "wget", Confidence: 0.9, Reason: "Wget download utility"},
			"jq":      {Namespace: packster.Formula, Name: "jq", Confidence: 0.9, Reason: "jq JSON processor"},
			"ripgrep": {Namespace: packster.Formula, Name: "ripgrep", Confidence: 0.9, Reason: "ripgrep search tool"},
		},
	},
}

// CategoryMapping proposes mappings from keyword containment against a
// small fixed set of category buckets.
//
// Buckets are mutually exclusive and checked in order; within a bucket
// the first keyword contained in the name wins. Pure.
func CategoryMapping(name, category string) []packster.Candidate {
	lower := strings.ToLower(name)
	for _, b := range categoryBuckets {
		triggered := category == b.category
		if !triggered {
			for _, kw := range b.keywords {
				if strings.Contains(lower, kw) {
					triggered = true
					break
				}
			}
		}
		if !triggered {
			continue
		}
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				c := b.targets[kw]
				return []packster.Candidate{c}
			}
		}
		// Category matched but no keyword did; nothing to propose.
		return nil
	}
	return nil
}
