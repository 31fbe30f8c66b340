package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/packster/packster"
	"github.com/packster/packster/brew"
	"github.com/packster/packster/cloud"
	"github.com/packster/packster/collect"
	"github.com/packster/packster/emit"
	"github.com/packster/packster/internal/cmdexec"
	"github.com/packster/packster/internal/osinfo"
	"github.com/packster/packster/mapper"
	"github.com/packster/packster/registry"
)

// Generate runs the full pipeline: collect, map, emit.
func Generate(ctx context.Context, cfg *commonConfig, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("o", "packster-out", "output directory for the migration bundle")
	noVerify := fs.Bool("no-verify", false, "skip Homebrew existence checks")
	concurrency := fs.Int("concurrency", 0, "mapping worker count (0 for the CPU count)")
	archive := fs.Bool("archive", false, "also write the bundle as a tar.gz next to the output directory")
	fs.Parse(args)

	host, err := osinfo.Detect(ctx)
	if err != nil {
		return err
	}
	reg, err := registry.Load(ctx, cfg.Registry)
	if err != nil {
		return err
	}

	items := collect.All(ctx, collect.Default(&cmdexec.System{}))
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "no packages collected; is this a supported Linux environment?")
	}

	verify := !*noVerify
	if verify && !brew.Available() {
		fmt.Fprintln(os.Stderr, "brew not found on PATH, skipping existence checks")
		verify = false
	}
	m := mapper.New(reg, verify)
	m.Concurrency = *concurrency
	results, err := m.MapAll(ctx, items)
	if err != nil {
		return err
	}

	if _, err := emit.WriteAll(ctx, *out, items, results, host); err != nil {
		return err
	}
	if *archive {
		bundle := *out + ".tar.gz"
		if err := cloud.ArchiveFile(ctx, *out, bundle); err != nil {
			return err
		}
		fmt.Printf("bundle: %s\n", bundle)
	}

	printSummary(os.Stdout, mapper.ComputeStatistics(results), *out)
	return nil
}

func printSummary(w *os.File, s mapper.Statistics, dir string) {
	fmt.Fprintf(w, "mapped %d packages\n", s.Total)
	for _, d := range []packster.Decision{packster.Auto, packster.Verify, packster.Manual, packster.Skipped} {
		if n := s.ByDecision[d]; n > 0 || d != packster.Skipped {
			fmt.Fprintf(w, "  %-7s %d\n", d, n)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	fmt.Fprintf(w, "bundle written to %s\n", abs)
	fmt.Fprintf(w, "next: copy it to the new machine and run bootstrap.sh\n")
}
