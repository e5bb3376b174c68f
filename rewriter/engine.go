// Package rewriter implements the commit-graph rewriter (component G): a
// reverse-topological walk from a tip commit that applies a Filter to every
// reachable ancestor, memoizing both directions in a Cache, and the default
// commit-lifting and commit-builder logic (component K) that every
// filter combinator not overriding ApplyToCommit relies on.
package rewriter

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// Engine drives filtering passes against one backend and one cache. It is
// not safe for concurrent use by multiple goroutines over the same Cache
// implementation unless that Cache is itself safe for concurrent writers
// (cache.Store is).
type Engine struct {
	Backend objstore.WriteBackend
	Cache   Cache
	Log     logrus.FieldLogger
	// OnCommit, if set, is called once per ancestor commit ApplyFilterCached
	// visits, in processing (oldest-first) order — a progress hook, not part
	// of the filtering semantics.
	OnCommit func(objhash.Oid)
}

// New returns an Engine ready to filter commits reachable in backend,
// memoizing results in cache. A nil log installs a logrus.StandardLogger.
func New(backend objstore.WriteBackend, cache Cache, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{Backend: backend, Cache: cache, Log: log}
}

// ApplyFilterCached is the rewriter's main entry point: it returns
// the oid tip filters to under f, computing and caching it (and every
// ancestor's filtered oid) if this is the first time (spec, tip) has been
// requested.
func (e *Engine) ApplyFilterCached(ctx context.Context, tip objhash.Oid, f Filter) (objhash.Oid, error) {
	spec := f.Spec()
	if cached, ok, err := e.Cache.Get(spec, tip); err != nil {
		return objhash.Zero, err
	} else if ok {
		return cached, nil
	}

	nodes, err := ancestryOldestFirst(ctx, e.Backend, tip)
	if err != nil {
		return objhash.Zero, fmt.Errorf("rewriter: walking ancestry of %s: %w", tip, err)
	}

	for _, n := range nodes {
		if ctx.Err() != nil {
			return objhash.Zero, ctx.Err()
		}
		if _, ok, _ := e.Cache.Get(spec, n.oid); ok {
			continue
		}
		if _, err := e.applyToCommit(ctx, f, n.oid, n.c); err != nil {
			e.Log.WithError(err).WithField("commit", n.oid.String()).Error("rewriter: cannot apply_to_commit, eliding")
			if setErr := e.Cache.Set(spec, n.oid, objhash.Zero); setErr != nil {
				return objhash.Zero, setErr
			}
		}
		if e.OnCommit != nil {
			e.OnCommit(n.oid)
		}
	}

	if cached, ok, err := e.Cache.Get(spec, tip); err != nil {
		return objhash.Zero, err
	} else if ok {
		return cached, nil
	}
	if err := e.Cache.Set(spec, tip, objhash.Zero); err != nil {
		return objhash.Zero, err
	}
	return objhash.Zero, nil
}

// applyToCommit is the dispatcher used by the top-level walk: it checks the
// cache, dispatches to a CommitApplier override if f declares one, and
// otherwise runs the default tree-apply / recurse-parents / select / build
// pipeline, caching the result either way.
func (e *Engine) applyToCommit(ctx context.Context, f Filter, oid objhash.Oid, c *objstore.Commit) (objhash.Oid, error) {
	spec := f.Spec()
	if cached, ok, err := e.Cache.Get(spec, oid); err != nil {
		return objhash.Zero, err
	} else if ok {
		return cached, nil
	}

	if applier, ok := f.(CommitApplier); ok {
		out, err := applier.ApplyToCommit(ctx, e, oid, c, f)
		if err != nil {
			return objhash.Zero, err
		}
		if err := e.Cache.Set(spec, oid, out); err != nil {
			return objhash.Zero, err
		}
		return out, nil
	}

	out, err := e.DefaultApplyToCommit(ctx, f, oid, c)
	if err != nil {
		return objhash.Zero, err
	}
	if err := e.Cache.Set(spec, oid, out); err != nil {
		return objhash.Zero, err
	}
	return out, nil
}

// DefaultApplyToCommit implements §4.4's default ApplyToCommit: it is
// exported so combinators that apply a sub-filter to one specific commit
// (Chain, Workspace) can run it for a sub-filter that has no CommitApplier
// override. It neither reads nor writes the cache.
func (e *Engine) DefaultApplyToCommit(ctx context.Context, f Filter, oid objhash.Oid, c *objstore.Commit) (objhash.Oid, error) {
	filteredTree, err := f.ApplyToTree(ctx, e.Backend, c.TreeID)
	if err != nil {
		return objhash.Zero, err
	}
	filteredParentIDs, err := e.FilterParents(ctx, f, c)
	if err != nil {
		return objhash.Zero, err
	}
	return createFilteredCommit(ctx, e.Backend, c, filteredParentIDs, filteredTree)
}

// FilterParents recursively filters each of c's parents under f, returning
// their filtered oids (Zero for a parent that filters away). Exported for
// the Fold override, which needs the same recursive parent set before it
// can compute its tree union.
func (e *Engine) FilterParents(ctx context.Context, f Filter, c *objstore.Commit) ([]objhash.Oid, error) {
	out := make([]objhash.Oid, len(c.Parents))
	for i, p := range c.Parents {
		fp, err := e.ApplyFilterCached(ctx, p, f)
		if err != nil {
			return nil, err
		}
		out[i] = fp
	}
	return out, nil
}

// CreateFilteredCommit exposes the commit-builder (component K) to filter
// combinators that synthesize their own parent set (Cutoff, Workspace).
func (e *Engine) CreateFilteredCommit(ctx context.Context, original *objstore.Commit, filteredParentIDs []objhash.Oid, filteredTree objhash.Oid) (objhash.Oid, error) {
	return createFilteredCommit(ctx, e.Backend, original, filteredParentIDs, filteredTree)
}

// CountAncestry returns the number of commits reachable from tip (tip
// included), letting a caller size a progress bar before a filtering pass
// that will visit roughly that many commits.
func (e *Engine) CountAncestry(ctx context.Context, tip objhash.Oid) (int, error) {
	nodes, err := ancestryOldestFirst(ctx, e.Backend, tip)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}
