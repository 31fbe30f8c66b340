package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/packster/packster/brew"
	"github.com/packster/packster/collect"
	"github.com/packster/packster/internal/cmdexec"
	"github.com/packster/packster/internal/osinfo"
	"github.com/packster/packster/registry"
)

// Doctor reports what packster can see of the environment.
func Doctor(ctx context.Context, cfg *commonConfig, args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	fs.Parse(args)

	host, err := osinfo.Detect(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "os\t%s\n", host.Name)
	if host.VersionID != "" {
		fmt.Fprintf(w, "version\t%s\n", host.VersionID)
	}
	fmt.Fprintf(w, "arch\t%s\n", host.Arch)
	fmt.Fprintf(w, "wsl\t%v\n", host.WSL)
	fmt.Fprintf(w, "apt family\t%v\n", host.DebianFamily())
	fmt.Fprintln(w)

	for _, c := range collect.Default(&cmdexec.System{}) {
		state := "missing"
		if c.Available() {
			state = "ok"
		}
		fmt.Fprintf(w, "%s\t%s\n", c.PM(), state)
	}
	fmt.Fprintln(w)

	switch {
	case brew.Available():
		if v, err := brew.Version(ctx, &cmdexec.System{}); err == nil {
			fmt.Fprintf(w, "brew\t%s\n", v)
		} else {
			fmt.Fprintf(w, "brew\tpresent, version unknown\n")
		}
	default:
		fmt.Fprintf(w, "brew\tmissing (existence checks will be skipped)\n")
	}

	reg, err := registry.Load(ctx, cfg.Registry)
	if err != nil {
		fmt.Fprintf(w, "registry\tbroken: %v\n", err)
		return nil
	}
	s := reg.Stats()
	fmt.Fprintf(w, "registry\t%s (%d mappings, %d aliases)\n", reg.Name, s.Mappings, s.Aliases)
	return nil
}
