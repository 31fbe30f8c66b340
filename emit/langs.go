package emit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quay/zlog"

	"github.com/packster/packster"
)

// Language manifest filenames, one per pass-through ecosystem.
var langFiles = map[packster.PackageManager]string{
	packster.Pip:   "requirements.txt",
	packster.NPM:   "global-node.txt",
	packster.Cargo: "cargo.txt",
	packster.Gem:   "gems.txt",
}

// WriteLanguageFiles writes per-ecosystem package manifests under dir.
//
// Language packages reinstall through their own package manager on the
// target, so the manifests carry every collected item regardless of how
// the mapping went. All four files are created even when empty so the
// bootstrap script can reference them unconditionally.
func WriteLanguageFiles(ctx context.Context, dir string, items []packster.NormalizedItem) (map[string]string, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "emit/WriteLanguageFiles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("emit: unable to create lang directory: %w", err)
	}

	grouped := make(map[packster.PackageManager][]packster.NormalizedItem)
	for _, i := range items {
		if _, ok := langFiles[i.PM]; !ok {
			continue
		}
		grouped[i.PM] = append(grouped[i.PM], i)
	}

	written := make(map[string]string, len(langFiles))
	for pm, name := range langFiles {
		items := grouped[pm]
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
		p := filepath.Join(dir, name)
		f, err := os.Create(p)
		if err != nil {
			return nil, fmt.Errorf("emit: unable to create %s: %w", name, err)
		}
		err = writeManifest(f, pm, items)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("emit: unable to write %s: %w", name, err)
		}
		written[name] = p
		zlog.Debug(ctx).Str("file", name).Int("count", len(items)).Msg("wrote language manifest")
	}
	return written, nil
}

func writeManifest(w io.Writer, pm packster.PackageManager, items []packster.NormalizedItem) error {
	bw := bufio.NewWriter(w)
	for _, i := range items {
		fmt.Fprintln(bw, manifestLine(pm, i))
	}
	return bw.Flush()
}

// ManifestLine formats one package in its ecosystem's pin syntax.
func manifestLine(pm packster.PackageManager, i packster.NormalizedItem) string {
	if i.Version == "" {
		return i.Name
	}
	switch pm {
	case packster.Pip:
		return i.Name + "==" + i.Version
	case packster.NPM, packster.Cargo:
		return i.Name + "@" + i.Version
	case packster.Gem:
		return i.Name + " -v " + i.Version
	}
	return i.Name
}
