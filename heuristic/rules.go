// Package heuristic implements pattern-based mapping guesses for
// packages that have no registry entry.
//
// Rules encode known naming drift between Ubuntu packages and Homebrew:
// exact renames score high, generic prefix and suffix strips score low
// enough that they land in the manual bucket without corroboration.
package heuristic

import (
	"context"
	"regexp"
	"sort"

	"github.com/quay/zlog"

	"github.com/packster/packster"
)

// Rule is a single heuristic rule.
//
// When Regex is set, Pattern is matched against the whole source name and
// TargetName may reference capture groups ($1, $2, ...). Otherwise the
// source name must equal Pattern exactly.
type Rule struct {
	Pattern     string
	Regex       bool
	Namespace   packster.Namespace
	TargetName  string
	Confidence  float64
	Reason      string
	PostInstall []string

	re *regexp.Regexp
}

// DefaultRules returns the built-in rule set.
//
// The slice is freshly allocated per call so callers can't disturb each
// other; rule regexes are compiled once at package init.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

var defaultRules = compileAll([]Rule{
	{
		Pattern:    "fd-find",
		Namespace:  packster.Formula,
		TargetName: "fd",
		Confidence: 0.9,
		Reason:     "fd-find is the Ubuntu package name for fd",
	},
	{
		Pattern:    "python3-pip",
		Namespace:  packster.Formula,
		TargetName: "python@3.12",
		Confidence: 0.6,
		Reason:     "python3-pip suggests Python 3 installation",
	},
	{
		Pattern:    "gnome-terminal",
		Namespace:  packster.Cask,
		TargetName: "iterm2",
		Confidence: 0.8,
		Reason:     "GUI terminal on macOS",
	},
	{
		Pattern:    "docker.io",
		Namespace:  packster.Cask,
		TargetName: "docker",
		Confidence: 0.85,
		Reason:     "Docker Desktop on macOS",
	},
	{
		Pattern:    "nodejs",
		Namespace:  packster.Formula,
		TargetName: "node",
		Confidence: 0.9,
		Reason:     "nodejs is the Ubuntu package name for node",
	},
	{
		Pattern:    "python3",
		Namespace:  packster.Formula,
		TargetName: "python@3.12",
		Confidence: 0.8,
		Reason:     "Python 3 on macOS",
	},
	{
		Pattern:    `^lib(.+)$`,
		Regex:      true,
		Namespace:  packster.Formula,
		TargetName: "$1",
		Confidence: 0.3,
		Reason:     "library packages often have lib prefix",
	},
	{
		Pattern:    `^(.+)-dev$`,
		Regex:      true,
		Namespace:  packster.Formula,
		TargetName: "$1",
		Confidence: 0.4,
		Reason:     "development packages often have -dev suffix",
	},
	{
		Pattern:    `^(.+)-dbg$`,
		Regex:      true,
		Namespace:  packster.Formula,
		TargetName: "$1",
		Confidence: 0.3,
		Reason:     "debug packages often have -dbg suffix",
	},
	{
		Pattern:    `^(.+)-doc$`,
		Regex:      true,
		Namespace:  packster.Formula,
		TargetName: "$1",
		Confidence: 0.2,
		Reason:     "documentation packages often have -doc suffix",
	},
})

func compileAll(rs []Rule) []Rule {
	for i := range rs {
		if rs[i].Regex {
			rs[i].re = regexp.MustCompile(rs[i].Pattern)
		}
	}
	return rs
}

// Apply runs every rule against the source name and collects all matches
// as candidates, sorted by confidence descending.
//
// No rule short-circuits another: a name may legitimately match both a
// literal alias and a generic strip rule, and the caller picks the best
// among all sources uniformly. An invalid regex in a caller-supplied rule
// is skipped, not fatal.
func Apply(ctx context.Context, name string, rules []Rule) []packster.Candidate {
	var out []packster.Candidate
	for i := range rules {
		r := &rules[i]
		if !r.Regex {
			if name == r.Pattern {
				out = append(out, packster.Candidate{
					Namespace:   r.Namespace,
					Name:        r.TargetName,
					Confidence:  r.Confidence,
					Reason:      r.Reason,
					PostInstall: r.PostInstall,
				})
			}
			continue
		}
		// Compile into a local on a cache miss, never back into the
		// rule: the slice is shared across concurrent Map calls.
		re := r.re
		if re == nil {
			var err error
			re, err = regexp.Compile(r.Pattern)
			if err != nil {
				zlog.Debug(ctx).
					Str("component", "heuristic/Apply").
					Str("pattern", r.Pattern).
					Err(err).
					Msg("skipping rule with invalid pattern")
				continue
			}
		}
		m := re.FindStringIndex(name)
		if m == nil || m[0] != 0 || m[1] != len(name) {
			continue
		}
		out = append(out, packster.Candidate{
			Namespace:   r.Namespace,
			Name:        re.ReplaceAllString(name, r.TargetName),
			Confidence:  r.Confidence,
			Reason:      r.Reason,
			PostInstall: r.PostInstall,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}
