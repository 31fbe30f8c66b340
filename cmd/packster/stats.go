package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/packster/packster"
	"github.com/packster/packster/mapper"
)

// Stats re-prints the summary of a previously generated report.json.
func Stats(ctx context.Context, cfg *commonConfig, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: packster stats [report.json | output-dir]\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	p := fs.Arg(0)
	if p == "" {
		p = "packster-out"
	}
	if fi, err := os.Stat(p); err == nil && fi.IsDir() {
		p = filepath.Join(p, "report.json")
	}
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("stats: unable to open report: %w", err)
	}
	defer f.Close()

	var report struct {
		ID          string                   `json:"id"`
		GeneratedAt string                   `json:"generated_at"`
		Summary     mapper.Statistics        `json:"summary"`
		Results     []packster.MappingResult `json:"results"`
	}
	if err := json.NewDecoder(f).Decode(&report); err != nil {
		return fmt.Errorf("stats: unable to parse %s: %w", p, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "run\t%s\n", report.ID)
	fmt.Fprintf(w, "generated\t%s\n", report.GeneratedAt)
	fmt.Fprintf(w, "total\t%d\n", report.Summary.Total)
	for _, d := range []packster.Decision{packster.Auto, packster.Verify, packster.Manual, packster.Skipped} {
		fmt.Fprintf(w, "%s\t%d\n", d, report.Summary.ByDecision[d])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "confidence high\t%d\n", report.Summary.Confidence.High)
	fmt.Fprintf(w, "confidence medium\t%d\n", report.Summary.Confidence.Medium)
	fmt.Fprintf(w, "confidence low\t%d\n", report.Summary.Confidence.Low)

	if manual := mapper.Filter(report.Results, []packster.Decision{packster.Manual}, 0); len(manual) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "needs manual attention:\n")
		for _, r := range manual {
			fmt.Fprintf(w, "\t%s (%s)\n", r.Source.Name, r.Source.PM)
		}
	}
	return nil
}
