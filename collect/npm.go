package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// NPM collects globally installed Node packages.
type NPM struct {
	Runner cmdexec.Runner
}

var _ Collector = (*NPM)(nil)

// PM implements Collector.
func (*NPM) PM() packster.PackageManager { return packster.NPM }

// Available implements Collector.
func (*NPM) Available() bool { return cmdexec.Available("npm") }

// Collect implements Collector.
//
// "npm ls -g" exits nonzero for peer dependency problems while still
// printing a usable tree, so only a completely unusable output is an
// error.
func (n *NPM) Collect(ctx context.Context) ([]packster.NormalizedItem, error) {
	code, stdout, _, err := n.Runner.Run(ctx, "npm", "ls", "-g", "--depth=0", "--json")
	if err != nil {
		return nil, fmt.Errorf("npm: unable to run npm ls: %w", err)
	}

	var tree struct {
		Dependencies map[string]struct {
			Version string `json:"version"`
		} `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(stdout)), &tree); err != nil {
		if code != 0 {
			return nil, fmt.Errorf("npm: npm ls exited %d with unparseable output", code)
		}
		return nil, fmt.Errorf("npm: unable to parse npm ls output: %w", err)
	}

	var out []packster.NormalizedItem
	for name, dep := range tree.Dependencies {
		out = append(out, packster.NormalizedItem{
			PM:       packster.NPM,
			Name:     name,
			Version:  dep.Version,
			Metadata: map[string]string{"scope": "global"},
		})
	}
	return out, nil
}
