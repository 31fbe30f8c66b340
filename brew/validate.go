package brew

import (
	"context"

	"github.com/quay/zlog"

	"github.com/packster/packster"
)

// Validate runs existence checks over the candidate list.
//
// Candidates in verifiable namespaces that turn out not to exist are kept
// with their confidence halved, not dropped: a human reviewing the manual
// bucket should still see what the engine guessed and why it lost
// confidence. A check that fails to run counts as "does not exist".
// Candidates in unverifiable namespaces pass through untouched.
//
// The result has the same length and order as the input. Each distinct
// namespace/name pair is checked at most once.
func Validate(ctx context.Context, c Checker, candidates []packster.Candidate) []packster.Candidate {
	ctx = zlog.ContextWithValues(ctx, "component", "brew/Validate")

	type key struct {
		ns   packster.Namespace
		name string
	}
	memo := make(map[key]bool, len(candidates))

	out := make([]packster.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.Namespace.Verifiable() {
			out = append(out, cand)
			continue
		}
		k := key{cand.Namespace, cand.Name}
		exists, seen := memo[k]
		if !seen {
			var err error
			exists, err = c.Exists(ctx, cand.Name, cand.Namespace)
			switch {
			case err != nil:
				// Fail closed: an unanswerable check never counts as
				// "exists".
				zlog.Debug(ctx).
					Str("name", cand.Name).
					Str("namespace", string(cand.Namespace)).
					Err(err).
					Msg("existence check failed, treating as not found")
				exists = false
				checkCounter.WithLabelValues("error").Inc()
			case exists:
				checkCounter.WithLabelValues("exists").Inc()
			default:
				checkCounter.WithLabelValues("missing").Inc()
			}
			memo[k] = exists
		}
		if exists {
			out = append(out, cand)
			continue
		}
		out = append(out, cand.Downgrade())
	}
	return out
}
