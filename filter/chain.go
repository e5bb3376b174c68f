package filter

import (
	"context"
	"strings"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/rewriter"
)

// Chain composes two filters, applying First then Second. At the commit
// level this is true sequential lifting: First is applied to the whole
// commit, producing a new commit object, and Second is applied to that —
// not merely the composition of their tree transforms — so a Second that
// overrides ApplyToCommit (another Chain, Fold, Cutoff, Workspace) sees a
// fully materialized intermediate commit to work from.
type Chain struct {
	First  rewriter.Filter
	Second rewriter.Filter
}

func (c Chain) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	t, err := c.First.ApplyToTree(ctx, b, oid)
	if err != nil {
		return objhash.Zero, err
	}
	return c.Second.ApplyToTree(ctx, b, t)
}

func (c Chain) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error) {
	p, err := c.First.ApplyToTree(ctx, b, parent)
	if err != nil {
		return objhash.Zero, err
	}
	a, err := c.Second.Unapply(ctx, b, filtered, p)
	if err != nil {
		return objhash.Zero, err
	}
	return c.First.Unapply(ctx, b, a, parent)
}

func (c Chain) ApplyToCommit(ctx context.Context, eng *rewriter.Engine, oid objhash.Oid, commit *objstore.Commit, _ rewriter.Filter) (objhash.Oid, error) {
	r, err := applyToCommitVia(ctx, eng, c.First, oid, commit)
	if err != nil {
		return objhash.Zero, err
	}
	if r.IsZero() {
		return objhash.Zero, nil
	}
	next, err := eng.Backend.Commit(ctx, r)
	if err != nil {
		return objhash.Zero, err
	}
	return applyToCommitVia(ctx, eng, c.Second, r, next)
}

// applyToCommitVia dispatches to f's own ApplyToCommit override if it has
// one, falling back to the engine's default commit-lifting pipeline.
func applyToCommitVia(ctx context.Context, eng *rewriter.Engine, f rewriter.Filter, oid objhash.Oid, commit *objstore.Commit) (objhash.Oid, error) {
	if applier, ok := f.(rewriter.CommitApplier); ok {
		return applier.ApplyToCommit(ctx, eng, oid, commit, f)
	}
	return eng.DefaultApplyToCommit(ctx, f, oid, commit)
}

func (c Chain) Spec() string {
	s := c.First.Spec() + c.Second.Spec()
	return strings.TrimPrefix(s, ":nop")
}

func (c Chain) Prefixes() map[string]string { return nil }
