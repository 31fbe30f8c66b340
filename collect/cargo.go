package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// Cargo collects binaries installed via "cargo install".
type Cargo struct {
	Runner cmdexec.Runner
}

var _ Collector = (*Cargo)(nil)

// PM implements Collector.
func (*Cargo) PM() packster.PackageManager { return packster.Cargo }

// Available implements Collector.
func (*Cargo) Available() bool { return cmdexec.Available("cargo") }

// Collect implements Collector.
//
// The listing interleaves crate headers ("ripgrep v13.0.0:") with
// indented binary names; only the headers matter here.
func (c *Cargo) Collect(ctx context.Context) ([]packster.NormalizedItem, error) {
	code, stdout, _, err := c.Runner.Run(ctx, "cargo", "install", "--list")
	if err != nil {
		return nil, fmt.Errorf("cargo: unable to run cargo install --list: %w", err)
	}
	if code != 0 {
		return nil, fmt.Errorf("cargo: cargo install --list exited %d", code)
	}

	var out []packster.NormalizedItem
	for _, line := range strings.Split(stdout, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		f := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ":"))
		if len(f) == 0 {
			continue
		}
		item := packster.NormalizedItem{
			PM:   packster.Cargo,
			Name: f[0],
		}
		if len(f) > 1 {
			item.Version = strings.TrimPrefix(f[1], "v")
		}
		out = append(out, item)
	}
	return out, nil
}
