package collect

import (
	"context"
	"fmt"
	"strings"

	debver "github.com/knqyf263/go-deb-version"
	"github.com/quay/zlog"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// APT collects manually installed packages on Debian-family systems.
//
// Only packages marked manual are migration candidates; everything
// pulled in as a dependency is assumed to follow them.
type APT struct {
	Runner cmdexec.Runner
}

var _ Collector = (*APT)(nil)

// PM implements Collector.
func (*APT) PM() packster.PackageManager { return packster.APT }

// Available implements Collector.
func (*APT) Available() bool { return cmdexec.Available("apt-mark") }

// Collect implements Collector.
func (a *APT) Collect(ctx context.Context) ([]packster.NormalizedItem, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "collect/APT.Collect")

	code, stdout, _, err := a.Runner.Run(ctx, "apt-mark", "showmanual")
	if err != nil {
		return nil, fmt.Errorf("apt: unable to run apt-mark: %w", err)
	}
	if code != 0 {
		return nil, fmt.Errorf("apt: apt-mark exited %d", code)
	}

	versions := a.versions(ctx)

	var out []packster.NormalizedItem
	for _, line := range strings.Split(stdout, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		out = append(out, packster.NormalizedItem{
			PM:       packster.APT,
			Name:     name,
			Version:  versions[name],
			Metadata: map[string]string{"scope": "manual"},
		})
	}
	return out, nil
}

// Versions maps installed package names to versions via dpkg-query.
// Best-effort: items without an answer just lack a version.
func (a *APT) versions(ctx context.Context) map[string]string {
	code, stdout, _, err := a.Runner.Run(ctx, "dpkg-query", "-W", "-f", "${Package}\t${Version}\n")
	if err != nil || code != 0 {
		zlog.Debug(ctx).Err(err).Int("exit", code).Msg("dpkg-query failed, versions unavailable")
		return nil
	}
	m := make(map[string]string)
	for _, line := range strings.Split(stdout, "\n") {
		name, ver, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		ver = strings.TrimSpace(ver)
		// dpkg reports one entry per architecture; "pkg:i386" style names
		// collapse onto the plain name.
		if i := strings.IndexByte(name, ':'); i != -1 {
			name = name[:i]
		}
		if name == "" || ver == "" {
			continue
		}
		prev, ok := m[name]
		if !ok {
			m[name] = ver
			continue
		}
		// Multiple arch entries: keep the higher version.
		pv, perr := debver.NewVersion(prev)
		nv, nerr := debver.NewVersion(ver)
		if perr == nil && nerr == nil && nv.GreaterThan(pv) {
			m[name] = ver
		}
	}
	return m
}
