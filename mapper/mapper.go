// Package mapper sequences the mapping pipeline per package record:
// registry lookup, heuristics, pattern and category matching, candidate
// validation, and the final disposition.
package mapper

import (
	"context"
	"runtime"
	"time"

	"github.com/quay/zlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/packster/packster"
	"github.com/packster/packster/brew"
	"github.com/packster/packster/heuristic"
	"github.com/packster/packster/registry"
)

// Decision thresholds, applied to the best surviving candidate.
const (
	autoThreshold   = 0.90
	verifyThreshold = 0.60
)

// Mapper maps normalized package records to target-platform candidates.
//
// The registry and rule set are read-only after construction and shared
// freely across concurrent Map calls.
type Mapper struct {
	Registry *registry.Registry
	Rules    []heuristic.Rule
	// Checker used for candidate validation. Ignored when Verify is
	// false.
	Checker brew.Checker
	Verify  bool
	// Concurrency bounds MapAll's fan-out. Zero means GOMAXPROCS.
	Concurrency int
}

// New returns a Mapper over the registry with the default rule set and a
// brew-backed checker.
func New(reg *registry.Registry, verify bool) *Mapper {
	return &Mapper{
		Registry: reg,
		Rules:    heuristic.DefaultRules(),
		Checker:  brew.NewCLI(),
		Verify:   verify,
	}
}

// Map maps a single package record.
//
// A registry hit is authoritative and suppresses heuristics entirely;
// pattern and category matches are always appended regardless. The
// decision is computed strictly from post-validation confidence.
func (m *Mapper) Map(ctx context.Context, item packster.NormalizedItem) packster.MappingResult {
	ctx = zlog.ContextWithValues(ctx,
		"component", "mapper/Mapper.Map",
		"package", item.Name)
	start := time.Now()

	var candidates []packster.Candidate
	if rm, ok := m.Registry.Find(item.Name); ok {
		candidates = append(candidates, rm.Candidate())
	} else {
		candidates = append(candidates, heuristic.Apply(ctx, item.Name, m.Rules)...)
	}
	candidates = append(candidates, enrich(ctx, item)...)
	candidates = dedupe(candidates)

	if m.Verify && m.Checker != nil && len(candidates) > 0 {
		candidates = brew.Validate(ctx, m.Checker, candidates)
	}

	decision := Decide(candidates)
	res := packster.MappingResult{
		Source:   item,
		Decision: decision,
	}
	if best := bestCandidate(candidates); best != nil {
		c := *best
		res.Candidate = &c
	}

	mapDuration.Observe(time.Since(start).Seconds())
	itemCounter.WithLabelValues(string(decision)).Inc()
	zlog.Debug(ctx).
		Str("decision", string(decision)).
		Int("candidates", len(candidates)).
		Msg("mapped package")
	return res
}

// Enrich runs the always-additive matchers. A failure here only costs
// the item those candidates, never the batch.
func enrich(ctx context.Context, item packster.NormalizedItem) (out []packster.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Debug(ctx).
				Interface("panic", r).
				Msg("enrichment matcher failed, continuing without it")
			out = nil
		}
	}()
	out = append(out, heuristic.CommonPatterns(item.Name)...)
	out = append(out, heuristic.CategoryMapping(item.Name, item.Category)...)
	return out
}

// Dedupe drops repeated namespace/name pairs, keeping the first
// occurrence: input order encodes precedence (registry before heuristics
// before patterns).
func dedupe(cs []packster.Candidate) []packster.Candidate {
	if len(cs) < 2 {
		return cs
	}
	type key struct {
		ns   packster.Namespace
		name string
	}
	seen := make(map[key]struct{}, len(cs))
	out := cs[:0]
	for _, c := range cs {
		k := key{c.Namespace, c.Name}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// BestCandidate returns the first candidate with maximum confidence, or
// nil for an empty list. Ties break toward encounter order because input
// order is itself meaningful.
func bestCandidate(cs []packster.Candidate) *packster.Candidate {
	if len(cs) == 0 {
		return nil
	}
	best := &cs[0]
	for i := range cs[1:] {
		if cs[i+1].Confidence > best.Confidence {
			best = &cs[i+1]
		}
	}
	return best
}

// Decide assigns a disposition from the best candidate's confidence.
//
// Skipped is never produced here; it's reserved for exclude-list policy
// applied elsewhere.
func Decide(cs []packster.Candidate) packster.Decision {
	best := bestCandidate(cs)
	switch {
	case best == nil:
		return packster.Manual
	case best.Confidence >= autoThreshold:
		return packster.Auto
	case best.Confidence >= verifyThreshold:
		return packster.Verify
	default:
		return packster.Manual
	}
}

// MapAll maps every item, fanning out across a bounded worker pool.
//
// The output is positionally aligned with the input. The only error
// returned is context cancellation.
func (m *Mapper) MapAll(ctx context.Context, items []packster.NormalizedItem) ([]packster.MappingResult, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "mapper/Mapper.MapAll")
	n := m.Concurrency
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}

	out := make([]packster.MappingResult, len(items))
	sem := semaphore.NewWeighted(int64(n))
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		if err := sem.Acquire(gctx, 1); err != nil {
			// Drain in-flight workers before abandoning the output
			// slice they're still writing into.
			g.Wait()
			return nil, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			out[i] = m.Map(gctx, items[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	zlog.Info(ctx).Int("count", len(items)).Msg("mapped packages")
	return out, nil
}
