package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/packster/packster"
)

// WriteBrewfile renders results into Homebrew bundle format.
//
// Auto-approved mappings become live "brew"/"cask" lines. Mappings that
// need verification are included commented out so the reader can vet
// them without hunting through the report.
func WriteBrewfile(w io.Writer, results []packster.MappingResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# Generated by packster. Run with: brew bundle --file=Brewfile")
	fmt.Fprintln(bw, `tap "homebrew/bundle"`)
	fmt.Fprintln(bw)

	var verify []packster.MappingResult
	for _, r := range results {
		if r.Candidate == nil {
			continue
		}
		switch r.Decision {
		case packster.Auto:
			fmt.Fprintln(bw, brewLine(r.Candidate))
		case packster.Verify:
			verify = append(verify, r)
		}
	}

	if len(verify) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "# Needs verification before enabling:")
		for _, r := range verify {
			fmt.Fprintf(bw, "# %s  # %s (%.2f)\n", brewLine(r.Candidate), r.Candidate.Reason, r.Candidate.Confidence)
		}
	}
	return bw.Flush()
}

func brewLine(c *packster.Candidate) string {
	switch c.Namespace {
	case packster.Cask:
		return fmt.Sprintf("cask '%s'", c.Name)
	default:
		return fmt.Sprintf("brew '%s'", c.Name)
	}
}
