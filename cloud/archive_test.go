package cloud

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/quay/zlog"
)

func TestArchive(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Brewfile"), []byte("brew 'git'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "lang"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lang", "requirements.txt"), []byte("black==24.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Archive(ctx, dir, &buf); err != nil {
		t.Fatal(err)
	}

	gr, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gr)
	got := make(map[string]string)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		got[hdr.Name] = string(b)
	}

	if got["Brewfile"] != "brew 'git'\n" {
		t.Errorf("Brewfile content: %q", got["Brewfile"])
	}
	if got["lang/requirements.txt"] != "black==24.1.0\n" {
		t.Errorf("requirements content: %q", got["lang/requirements.txt"])
	}
}

func TestArchiveManyFiles(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	dir := t.TempDir()
	const n = 512
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("f%04d", i))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := Archive(ctx, dir, &buf); err != nil {
		t.Fatal(err)
	}

	gr, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gr)
	var got int
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			got++
		}
	}
	if got != n {
		t.Errorf("got %d members, want %d", got, n)
	}
}

func TestArchiveFile(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "bundle.tar.gz")
	if err := ArchiveFile(ctx, dir, out); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("empty archive written")
	}
}

func TestArchiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(zlog.Test(context.Background(), t))
	cancel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Archive(ctx, dir, io.Discard); err == nil {
		t.Error("expected context error")
	}
}
