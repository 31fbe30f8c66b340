// Package osinfo detects the operating system packster is collecting
// from, as documented at
// https://www.freedesktop.org/software/systemd/man/os-release.html
package osinfo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/quay/zlog"
)

const fpath = `/etc/os-release`

// Host describes the source system.
type Host struct {
	// ID is the os-release "ID" field, e.g. "ubuntu".
	ID string
	// Name is the os-release "PRETTY_NAME", falling back to "NAME".
	Name string
	// VersionID is the os-release "VERSION_ID".
	VersionID string
	// Arch is the normalized machine architecture, e.g. "x86_64".
	Arch string
	// WSL reports whether the host is a Windows Subsystem for Linux
	// environment.
	WSL bool
}

// Detect examines the running system.
//
// A missing os-release file is not an error; the returned Host then
// carries only architecture information.
func Detect(ctx context.Context) (Host, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "internal/osinfo/Detect")
	h := Host{
		ID:   "linux",
		Name: "Linux",
		Arch: normalizeArch(runtime.GOARCH),
	}

	f, err := os.Open(fpath)
	switch {
	case err == nil:
		defer f.Close()
		if err := parse(f, &h); err != nil {
			return h, fmt.Errorf("osinfo: malformed os-release: %w", err)
		}
	case os.IsNotExist(err):
		zlog.Debug(ctx).Msg("no os-release file")
	default:
		return h, fmt.Errorf("osinfo: unable to open os-release: %w", err)
	}

	h.WSL = detectWSL()
	zlog.Debug(ctx).
		Str("id", h.ID).
		Str("version", h.VersionID).
		Bool("wsl", h.WSL).
		Msg("detected host")
	return h, nil
}

// Parse fills h from os-release formatted key=value lines.
func parse(r io.Reader, h *Host) error {
	var name string
	s := bufio.NewScanner(r)
	for s.Scan() {
		b := strings.TrimSpace(s.Text())
		if b == "" || b[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(b, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			h.ID = value
		case "NAME":
			name = value
		case "PRETTY_NAME":
			h.Name = value
		case "VERSION_ID":
			h.VersionID = value
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	if h.Name == "Linux" && name != "" {
		h.Name = name
	}
	return nil
}

// NormalizeArch collapses the GOARCH spelling onto the uname one.
func normalizeArch(a string) string {
	switch a {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i686"
	}
	return a
}

// DetectWSL checks the kernel version string for the Microsoft marker.
func detectWSL() bool {
	b, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	v := strings.ToLower(string(b))
	return strings.Contains(v, "microsoft") || strings.Contains(v, "wsl")
}

// DebianFamily reports whether the detected distribution uses apt.
func (h Host) DebianFamily() bool {
	switch h.ID {
	case "debian", "ubuntu", "linuxmint", "pop", "raspbian", "kali", "elementary":
		return true
	}
	return false
}
