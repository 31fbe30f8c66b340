package brew

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/quay/zlog"

	"github.com/packster/packster"
)

// fakeRunner maps joined argv to canned results.
type fakeRunner struct {
	results map[string]fakeResult
	calls   []string
}

type fakeResult struct {
	code   int
	stdout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, argv ...string) (int, string, string, error) {
	k := strings.Join(argv, " ")
	f.calls = append(f.calls, k)
	r, ok := f.results[k]
	if !ok {
		return 1, "", "", nil
	}
	return r.code, r.stdout, "", r.err
}

func newCLI(r *fakeRunner) *CLI {
	return &CLI{Runner: r}
}

func TestExists(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)

	t.Run("InfoHit", func(t *testing.T) {
		r := &fakeRunner{results: map[string]fakeResult{
			"brew info git": {code: 0, stdout: "git: stable 2.44.0"},
		}}
		ok, err := newCLI(r).Exists(ctx, "git", packster.Formula)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("expected git to exist")
		}
		if len(r.calls) != 1 {
			t.Errorf("expected a single call, got: %v", r.calls)
		}
	})

	t.Run("SearchFallbackExactLine", func(t *testing.T) {
		r := &fakeRunner{results: map[string]fakeResult{
			"brew info fd":   {code: 1},
			"brew search fd": {code: 0, stdout: "==> Formulae\nfd\nfdupes\n"},
		}}
		ok, err := newCLI(r).Exists(ctx, "fd", packster.Formula)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("expected fd to exist via search")
		}
	})

	t.Run("SearchFallbackNoExactLine", func(t *testing.T) {
		r := &fakeRunner{results: map[string]fakeResult{
			"brew info fdx":   {code: 1},
			"brew search fdx": {code: 0, stdout: "fdupes\nfdisk\n"},
		}}
		ok, err := newCLI(r).Exists(ctx, "fdx", packster.Formula)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("expected fdx to not exist")
		}
	})

	t.Run("Cask", func(t *testing.T) {
		r := &fakeRunner{results: map[string]fakeResult{
			"brew info --cask docker": {code: 0, stdout: "docker: 4.0"},
		}}
		ok, err := newCLI(r).Exists(ctx, "docker", packster.Cask)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("expected docker cask to exist")
		}
	})

	t.Run("RunnerError", func(t *testing.T) {
		r := &fakeRunner{results: map[string]fakeResult{
			"brew info git": {code: -1, err: errors.New("brew: not found")},
		}}
		_, err := newCLI(r).Exists(ctx, "git", packster.Formula)
		if !errors.Is(err, packster.ErrCheck) {
			t.Errorf("expected a check error, got: %v", err)
		}
	})

	t.Run("UnverifiableNamespace", func(t *testing.T) {
		r := &fakeRunner{}
		_, err := newCLI(r).Exists(ctx, "requests", packster.Namespace("pip"))
		if !errors.Is(err, packster.ErrInvalid) {
			t.Errorf("expected an invalid error, got: %v", err)
		}
		if len(r.calls) != 0 {
			t.Errorf("unexpected calls: %v", r.calls)
		}
	})
}

// staticChecker answers from a map and counts calls per name.
type staticChecker struct {
	exists map[string]bool
	err    error
	calls  map[string]int
}

func (s *staticChecker) Exists(_ context.Context, name string, _ packster.Namespace) (bool, error) {
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
	if s.err != nil {
		return false, s.err
	}
	return s.exists[name], nil
}

func TestValidate(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)

	in := []packster.Candidate{
		{Namespace: packster.Formula, Name: "git", Confidence: 0.95, Reason: "registry"},
		{Namespace: packster.Formula, Name: "ghost-pkg", Confidence: 0.95, Reason: "heuristic"},
		{Namespace: packster.Namespace("pip"), Name: "requests", Confidence: 0.7, Reason: "pass-through"},
	}
	ck := &staticChecker{exists: map[string]bool{"git": true}}
	got := Validate(ctx, ck, in)

	want := []packster.Candidate{
		{Namespace: packster.Formula, Name: "git", Confidence: 0.95, Reason: "registry"},
		{Namespace: packster.Formula, Name: "ghost-pkg", Confidence: 0.475, Reason: "heuristic"},
		{Namespace: packster.Namespace("pip"), Name: "requests", Confidence: 0.7, Reason: "pass-through"},
	}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
	if ck.calls["requests"] != 0 {
		t.Error("unverifiable namespace was checked")
	}
}

func TestValidateMemoizes(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	in := []packster.Candidate{
		{Namespace: packster.Formula, Name: "fd", Confidence: 0.9},
		{Namespace: packster.Formula, Name: "fd", Confidence: 0.5},
	}
	ck := &staticChecker{exists: map[string]bool{"fd": true}}
	Validate(ctx, ck, in)
	if got := ck.calls["fd"]; got != 1 {
		t.Errorf("expected one check for fd, got: %d", got)
	}
}

func TestValidateCheckErrorFailsClosed(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	in := []packster.Candidate{
		{Namespace: packster.Formula, Name: "git", Confidence: 0.8},
	}
	ck := &staticChecker{err: errors.New("timeout")}
	got := Validate(ctx, ck, in)
	if len(got) != 1 {
		t.Fatalf("length changed: %d", len(got))
	}
	if got[0].Confidence != 0.4 {
		t.Errorf("confidence: got: %v, want: 0.4", got[0].Confidence)
	}
}

func TestVersion(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r := &fakeRunner{results: map[string]fakeResult{
		"brew --version": {code: 0, stdout: "Homebrew 4.1.0\n"},
	}}
	v, err := Version(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := v.String(), "4.1.0"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func TestSearchSkipsHeaders(t *testing.T) {
	ctx := zlog.Test(context.Background(), t)
	r := &fakeRunner{results: map[string]fakeResult{
		"brew search rip": {code: 0, stdout: "==> Formulae\nripgrep\nripgrep-all\n"},
	}}
	got, err := Search(ctx, r, "rip")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ripgrep", "ripgrep-all"}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
}
