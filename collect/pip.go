package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// Pip collects globally installed Python packages via "pip freeze".
type Pip struct {
	Runner cmdexec.Runner
}

var _ Collector = (*Pip)(nil)

// PM implements Collector.
func (*Pip) PM() packster.PackageManager { return packster.Pip }

// Available implements Collector.
func (*Pip) Available() bool {
	return cmdexec.Available("pip") || cmdexec.Available("pip3")
}

// Collect implements Collector.
func (p *Pip) Collect(ctx context.Context) ([]packster.NormalizedItem, error) {
	bin := "pip"
	if !cmdexec.Available(bin) {
		bin = "pip3"
	}
	code, stdout, _, err := p.Runner.Run(ctx, bin, "freeze")
	if err != nil {
		return nil, fmt.Errorf("pip: unable to run %s freeze: %w", bin, err)
	}
	if code != 0 {
		return nil, fmt.Errorf("pip: %s freeze exited %d", bin, code)
	}

	var out []packster.NormalizedItem
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Editable and VCS installs aren't name==version lines; they
		// need a human anyway.
		if strings.HasPrefix(line, "-e ") || strings.Contains(line, " @ ") {
			continue
		}
		name, ver, _ := strings.Cut(line, "==")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, packster.NormalizedItem{
			PM:      packster.Pip,
			Name:    name,
			Version: strings.TrimSpace(ver),
		})
	}
	return out, nil
}
