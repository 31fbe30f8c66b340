// Package emit renders mapping results into the migration bundle: a
// Brewfile, a bootstrap script, machine and human readable reports,
// and per-ecosystem package manifests.
package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quay/zlog"

	"github.com/packster/packster"
	"github.com/packster/packster/internal/osinfo"
)

// WriteAll writes the complete output tree under dir and returns the
// paths written, keyed by artifact name. The items are the collected
// packages the results were mapped from; language manifests come from
// them directly.
func WriteAll(ctx context.Context, dir string, items []packster.NormalizedItem, results []packster.MappingResult, host osinfo.Host) (map[string]string, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "emit/WriteAll")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("emit: unable to create output directory: %w", err)
	}

	written := make(map[string]string)
	write := func(name string, fn func(*os.File) error) error {
		p := filepath.Join(dir, name)
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("emit: unable to create %s: %w", name, err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("emit: unable to write %s: %w", name, err)
		}
		written[name] = p
		return nil
	}

	if err := write("Brewfile", func(f *os.File) error {
		return WriteBrewfile(f, results)
	}); err != nil {
		return nil, err
	}
	if err := write("bootstrap.sh", func(f *os.File) error {
		if err := WriteBootstrap(f, results); err != nil {
			return err
		}
		return f.Chmod(0o755)
	}); err != nil {
		return nil, err
	}

	report := NewReport(results, host)
	if err := write("report.json", func(f *os.File) error {
		return report.WriteJSON(f)
	}); err != nil {
		return nil, err
	}
	if err := write("report.html", func(f *os.File) error {
		return report.WriteHTML(f)
	}); err != nil {
		return nil, err
	}

	lang, err := WriteLanguageFiles(ctx, filepath.Join(dir, "lang"), items)
	if err != nil {
		return nil, err
	}
	for n, p := range lang {
		written[filepath.Join("lang", n)] = p
	}

	zlog.Info(ctx).
		Str("dir", dir).
		Int("files", len(written)).
		Msg("wrote migration bundle")
	return written, nil
}
