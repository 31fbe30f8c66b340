// Package brew wraps the Homebrew CLI: existence checks used by the
// candidate validator, plus the small query surface the CLI layer needs.
package brew

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/quay/zlog"
	"golang.org/x/time/rate"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/cmdexec"
)

// Checker reports whether a name exists in a target namespace.
//
// Implementations must treat their own failures as authoritative "does
// not exist" answers only via the returned error; the validator decides
// how to react.
type Checker interface {
	Exists(ctx context.Context, name string, ns packster.Namespace) (bool, error)
}

// CLI implements Checker by shelling out to brew.
//
// Checks are throttled through a shared rate limiter so a large batch
// doesn't hammer the brew command, and each check gets its own timeout so
// one hung invocation can't stall unrelated items.
type CLI struct {
	Runner  cmdexec.Runner
	Timeout time.Duration

	limit *rate.Limiter
}

var _ Checker = (*CLI)(nil)

// NewCLI returns a CLI backed by the system brew command.
func NewCLI() *CLI {
	return &CLI{
		Runner:  cmdexec.System{},
		Timeout: 15 * time.Second,
		limit:   rate.NewLimiter(rate.Every(200*time.Millisecond), 4),
	}
}

// Exists implements Checker.
//
// It tries "brew info" first and falls back to "brew search" looking for
// an exact line match, with "--cask" variants for the cask namespace.
func (c *CLI) Exists(ctx context.Context, name string, ns packster.Namespace) (bool, error) {
	ctx = zlog.ContextWithValues(ctx,
		"component", "brew/CLI.Exists",
		"name", name,
		"namespace", string(ns))

	var info, search []string
	switch ns {
	case packster.Formula:
		info = []string{"brew", "info", name}
		search = []string{"brew", "search", name}
	case packster.Cask:
		info = []string{"brew", "info", "--cask", name}
		search = []string{"brew", "search", "--cask", name}
	default:
		return false, &packster.Error{
			Kind:    packster.ErrInvalid,
			Op:      "Exists",
			Message: fmt.Sprintf("namespace %q is not verifiable", ns),
		}
	}

	if c.limit != nil {
		if err := c.limit.Wait(ctx); err != nil {
			return false, c.checkErr(err)
		}
	}
	done := func() {}
	if c.Timeout > 0 {
		ctx, done = context.WithTimeout(ctx, c.Timeout)
	}
	defer done()

	code, _, _, err := c.Runner.Run(ctx, info...)
	if err != nil {
		return false, c.checkErr(err)
	}
	if code == 0 {
		return true, nil
	}

	code, stdout, _, err := c.Runner.Run(ctx, search...)
	if err != nil {
		return false, c.checkErr(err)
	}
	if code != 0 {
		return false, nil
	}
	for _, line := range strings.Split(stdout, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *CLI) checkErr(err error) error {
	return &packster.Error{
		Inner:   err,
		Kind:    packster.ErrCheck,
		Op:      "Exists",
		Message: "brew invocation failed",
	}
}

// Available reports whether the brew command is present.
func Available() bool {
	return cmdexec.Available("brew")
}

// Version reports the installed Homebrew version.
func Version(ctx context.Context, r cmdexec.Runner) (*semver.Version, error) {
	code, stdout, _, err := r.Run(ctx, "brew", "--version")
	if err != nil {
		return nil, fmt.Errorf("brew: unable to run brew --version: %w", err)
	}
	if code != 0 {
		return nil, fmt.Errorf("brew: brew --version exited %d", code)
	}
	// First line looks like "Homebrew 4.1.0".
	line, _, _ := strings.Cut(stdout, "\n")
	f := strings.Fields(line)
	if len(f) < 2 {
		return nil, fmt.Errorf("brew: unexpected version output %q", line)
	}
	v, err := semver.NewVersion(f[len(f)-1])
	if err != nil {
		return nil, fmt.Errorf("brew: unable to parse version %q: %w", f[len(f)-1], err)
	}
	return v, nil
}

// Info returns the "brew info" text for a formula, or an empty string
// when the formula is unknown.
func Info(ctx context.Context, r cmdexec.Runner, name string) (string, error) {
	code, stdout, _, err := r.Run(ctx, "brew", "info", name)
	if err != nil {
		return "", fmt.Errorf("brew: info failed: %w", err)
	}
	if code != 0 {
		return "", nil
	}
	return stdout, nil
}

// Search returns package names matching the query, skipping section
// headers in the output.
func Search(ctx context.Context, r cmdexec.Runner, query string) ([]string, error) {
	code, stdout, _, err := r.Run(ctx, "brew", "search", query)
	if err != nil {
		return nil, fmt.Errorf("brew: search failed: %w", err)
	}
	if code != 0 {
		return nil, nil
	}
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "==") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// Installed returns the installed formulae.
func Installed(ctx context.Context, r cmdexec.Runner) ([]string, error) {
	return list(ctx, r, "brew", "list")
}

// InstalledCasks returns the installed casks.
func InstalledCasks(ctx context.Context, r cmdexec.Runner) ([]string, error) {
	return list(ctx, r, "brew", "list", "--cask")
}

func list(ctx context.Context, r cmdexec.Runner, argv ...string) ([]string, error) {
	code, stdout, _, err := r.Run(ctx, argv...)
	if err != nil {
		return nil, fmt.Errorf("brew: %s failed: %w", strings.Join(argv, " "), err)
	}
	if code != 0 {
		return nil, nil
	}
	var out []string
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}
