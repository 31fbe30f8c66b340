package registry

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/quay/zlog"

	"github.com/packster/packster"
)

func TestLoad(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r, err := Load(ctx, filepath.Join("testdata", "apt-to-brew.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.Name, "apt-to-brew"; got != want {
		t.Errorf("name: got: %q, want: %q", got, want)
	}
	if got, want := r.Version, "1.2"; got != want {
		t.Errorf("version: got: %q, want: %q", got, want)
	}
	if got, want := len(r.Mappings), 5; got != want {
		t.Errorf("mappings: got: %d, want: %d", got, want)
	}

	t.Run("Structured", func(t *testing.T) {
		want := Mapping{
			Source:      "docker.io",
			Namespace:   packster.Cask,
			Name:        "docker",
			Confidence:  0.85,
			Reason:      "Docker Desktop ships as a cask",
			PostInstall: []string{"open -a Docker"},
		}
		got, ok := r.Find("docker.io")
		if !ok {
			t.Fatal("docker.io not found")
		}
		if !cmp.Equal(got, &want) {
			t.Error(cmp.Diff(got, &want))
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		got, ok := r.Find("neovim")
		if !ok {
			t.Fatal("neovim not found")
		}
		if got.Confidence != defaultConfidence {
			t.Errorf("confidence: got: %v, want: %v", got.Confidence, defaultConfidence)
		}
		if got.Reason != defaultReason {
			t.Errorf("reason: got: %q, want: %q", got.Reason, defaultReason)
		}
	})

	t.Run("Shorthand", func(t *testing.T) {
		want := Mapping{
			Source:     "fd-find",
			Namespace:  packster.Formula,
			Name:       "fd",
			Confidence: shorthandConfidence,
			Reason:     shorthandReason,
		}
		got, ok := r.Find("fd-find")
		if !ok {
			t.Fatal("fd-find not found")
		}
		if !cmp.Equal(got, &want) {
			t.Error(cmp.Diff(got, &want))
		}
	})
}

func TestLoadMissing(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r, err := Load(ctx, filepath.Join("testdata", "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing registry should not be an error, got: %v", err)
	}
	if got, want := r.Name, "Default Registry"; got != want {
		t.Errorf("name: got: %q, want: %q", got, want)
	}
	if len(r.Mappings) != 0 {
		t.Errorf("expected no mappings, got %d", len(r.Mappings))
	}
}

func TestLoadUnconfigured(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r, err := Load(ctx, "")
	if err != nil {
		t.Fatalf("empty path should not be an error, got: %v", err)
	}
	if got, want := r.Name, "Default Registry"; got != want {
		t.Errorf("name: got: %q, want: %q", got, want)
	}
	if len(r.Mappings) != 0 {
		t.Errorf("expected no mappings, got %d", len(r.Mappings))
	}
}

func TestLoadMalformed(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	_, err := Load(ctx, filepath.Join("testdata", "malformed.yaml"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, packster.ErrConfiguration) {
		t.Errorf("expected a configuration error, got: %v", err)
	}
}

func TestFind(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r, err := Load(ctx, filepath.Join("testdata", "apt-to-brew.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name   string
		lookup string
		target string
		ok     bool
	}{
		{name: "Exact", lookup: "git", target: "git", ok: true},
		{name: "Alias", lookup: "g", target: "git", ok: true},
		{name: "AliasToShorthand", lookup: "neovim-nightly", target: "neovim", ok: true},
		{name: "CaseInsensitive", lookup: "RipGrep", target: "ripgrep", ok: true},
		{name: "Absent", lookup: "nonexistent-xyz", ok: false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := r.Find(tc.lookup)
			if ok != tc.ok {
				t.Fatalf("ok: got: %v, want: %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if m.Name != tc.target {
				t.Errorf("target: got: %q, want: %q", m.Name, tc.target)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	orig, err := Load(ctx, filepath.Join("testdata", "apt-to-brew.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(t.TempDir(), "out.yaml")
	if err := orig.Save(p); err != nil {
		t.Fatal(err)
	}
	got, err := Load(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	// Shorthand entries are persisted in the structured form, so reloading
	// keeps their values.
	if !cmp.Equal(got.Mappings, orig.Mappings) {
		t.Error(cmp.Diff(got.Mappings, orig.Mappings))
	}
	if !cmp.Equal(got.Aliases, orig.Aliases) {
		t.Error(cmp.Diff(got.Aliases, orig.Aliases))
	}
}

func TestStats(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r, err := Load(ctx, filepath.Join("testdata", "apt-to-brew.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	s := r.Stats()
	if got, want := s.Mappings, 5; got != want {
		t.Errorf("mappings: got: %d, want: %d", got, want)
	}
	if got, want := s.Aliases, 2; got != want {
		t.Errorf("aliases: got: %d, want: %d", got, want)
	}
	if got, want := s.High+s.Medium+s.Low, 5; got != want {
		t.Errorf("bands should partition mappings: got: %d, want: %d", got, want)
	}
	if got, want := s.ByNamespace["cask"], 1; got != want {
		t.Errorf("cask count: got: %d, want: %d", got, want)
	}
}

func TestAddRemove(t *testing.T) {
	r := Empty()
	r.Add(Mapping{Source: "htop", Namespace: packster.Formula, Name: "htop"})
	m, ok := r.Find("htop")
	if !ok {
		t.Fatal("htop not found after Add")
	}
	if m.Confidence != defaultConfidence || m.Reason != defaultReason {
		t.Errorf("defaults not applied: %+v", m)
	}
	if !r.Remove("htop") {
		t.Error("Remove reported no entry")
	}
	if r.Remove("htop") {
		t.Error("Remove reported an entry twice")
	}
}
