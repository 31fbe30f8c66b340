package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// Gem collects locally installed Ruby gems.
type Gem struct {
	Runner cmdexec.Runner
}

var _ Collector = (*Gem)(nil)

// PM implements Collector.
func (*Gem) PM() packster.PackageManager { return packster.Gem }

// Available implements Collector.
func (*Gem) Available() bool { return cmdexec.Available("gem") }

// Collect implements Collector.
//
// Lines look like "rails (7.1.2, 7.0.8)"; the first listed version is
// the newest installed one.
func (g *Gem) Collect(ctx context.Context) ([]packster.NormalizedItem, error) {
	code, stdout, _, err := g.Runner.Run(ctx, "gem", "list", "--local")
	if err != nil {
		return nil, fmt.Errorf("gem: unable to run gem list: %w", err)
	}
	if code != 0 {
		return nil, fmt.Errorf("gem: gem list exited %d", code)
	}

	var out []packster.NormalizedItem
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "***") {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		if name == "" {
			continue
		}
		item := packster.NormalizedItem{
			PM:   packster.Gem,
			Name: name,
		}
		rest = strings.Trim(rest, "()")
		if v, _, ok := strings.Cut(rest, ","); ok {
			item.Version = strings.TrimSpace(v)
		} else if rest != "" {
			item.Version = strings.TrimSpace(rest)
		}
		// The version list can carry a "default: " marker.
		item.Version = strings.TrimPrefix(item.Version, "default: ")
		out = append(out, item)
	}
	return out, nil
}
