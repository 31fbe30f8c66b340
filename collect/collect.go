// Package collect enumerates installed packages from the package
// managers present on the source system and normalizes them for the
// mapping engine.
package collect

import (
	"context"

	"github.com/quay/zlog"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// Collector enumerates installed packages for one package manager.
type Collector interface {
	// PM identifies the package manager.
	PM() packster.PackageManager
	// Available reports whether the underlying CLI is present.
	Available() bool
	// Collect returns the installed packages. The error covers a CLI
	// that could not be run at all; a manager with nothing installed
	// returns an empty slice.
	Collect(ctx context.Context) ([]packster.NormalizedItem, error)
}

// Default returns collectors for every supported package manager,
// backed by the given runner.
func Default(r cmdexec.Runner) []Collector {
	return []Collector{
		&APT{Runner: r},
		&Pip{Runner: r},
		&NPM{Runner: r},
		&Cargo{Runner: r},
		&Gem{Runner: r},
	}
}

// All runs every available collector and normalizes the union of their
// output: exclusion of system packages, deduplication, categorization.
//
// A collector failing is logged and skipped; collection keeps whatever
// the other managers report.
func All(ctx context.Context, collectors []Collector) []packster.NormalizedItem {
	ctx = zlog.ContextWithValues(ctx, "component", "collect/All")

	var items []packster.NormalizedItem
	for _, c := range collectors {
		if !c.Available() {
			zlog.Debug(ctx).
				Str("pm", string(c.PM())).
				Msg("package manager not present, skipping")
			continue
		}
		got, err := c.Collect(ctx)
		if err != nil {
			zlog.Warn(ctx).
				Str("pm", string(c.PM())).
				Err(err).
				Msg("collection failed, skipping package manager")
			continue
		}
		zlog.Info(ctx).
			Str("pm", string(c.PM())).
			Int("count", len(got)).
			Msg("collected packages")
		items = append(items, got...)
	}

	items = Exclude(items)
	items = Dedup(items)
	items = Enrich(items)
	zlog.Info(ctx).Int("count", len(items)).Msg("normalized packages")
	return items
}
