// Package cloud bundles a migration output tree for transfer to the
// target machine.
package cloud

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/quay/zlog"
)

// Archive writes dir as a gzip-compressed tarball to w.
//
// Member names are relative to dir, so the bundle unpacks in place.
// Symlinks and other irregular files are skipped.
func Archive(ctx context.Context, dir string, w io.Writer) error {
	ctx = zlog.ContextWithValues(ctx, "component", "cloud/Archive")

	gw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("cloud: unable to configure gzip: %w", err)
	}
	tw := tar.NewWriter(gw)

	var files int
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case fi.Mode().IsDir():
			hdr, err := tar.FileInfoHeader(fi, "")
			if err != nil {
				return err
			}
			hdr.Name = filepath.ToSlash(rel) + "/"
			return tw.WriteHeader(hdr)
		case !fi.Mode().IsRegular():
			zlog.Debug(ctx).Str("file", rel).Msg("skipping irregular file")
			return nil
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		// Close as soon as the copy finishes; a deferred close would
		// hold every member open until the walk completes.
		_, err = io.Copy(tw, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return fmt.Errorf("cloud: unable to archive %s: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("cloud: unable to finalize tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("cloud: unable to finalize gzip: %w", err)
	}
	zlog.Debug(ctx).Int("files", files).Msg("archived bundle")
	return nil
}

// ArchiveFile archives dir to the named tar.gz file.
func ArchiveFile(ctx context.Context, dir, out string) (err error) {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("cloud: unable to create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Archive(ctx, dir, f)
}
