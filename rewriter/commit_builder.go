package rewriter

import (
	"context"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// selectParents implements the parent-selection rule: keep every filtered
// parent iff at least one of them has a tree different from filteredTree, or the
// original commit was itself a no-op (all its parents had the same tree as
// it). Otherwise drop all of them, linearizing a merge that collapses under
// the filter.
func selectParents(ctx context.Context, backend objstore.Backend, original *objstore.Commit, filteredTree objhash.Oid, filteredParents []*objstore.Commit) (bool, error) {
	affectsFiltered := false
	for _, p := range filteredParents {
		if p.TreeID != filteredTree {
			affectsFiltered = true
			break
		}
	}
	allDiffsEmpty := true
	for _, q := range original.Parents {
		qc, err := backend.Commit(ctx, q)
		if err != nil {
			return false, err
		}
		if qc.TreeID != original.TreeID {
			allDiffsEmpty = false
			break
		}
	}
	return affectsFiltered || allDiffsEmpty, nil
}

// createFilteredCommit implements the commit-builder (component K): given
// the original commit and the already-filtered oids of its parents (which
// may contain Zero for parents that filtered away entirely), produce the
// final filtered commit oid, applying the collapse/elision rules before
// ever calling into the backend to materialize a new commit object.
func createFilteredCommit(ctx context.Context, backend objstore.WriteBackend, original *objstore.Commit, filteredParentIDs []objhash.Oid, filteredTree objhash.Oid) (objhash.Oid, error) {
	var nonZeroOids []objhash.Oid
	var nonZeroCommits []*objstore.Commit
	for _, pid := range filteredParentIDs {
		if pid.IsZero() {
			continue
		}
		pc, err := backend.Commit(ctx, pid)
		if err != nil {
			return objhash.Zero, err
		}
		nonZeroOids = append(nonZeroOids, pid)
		nonZeroCommits = append(nonZeroCommits, pc)
	}

	keepAll, err := selectParents(ctx, backend, original, filteredTree, nonZeroCommits)
	if err != nil {
		return objhash.Zero, err
	}

	var selected []objhash.Oid
	if keepAll {
		selected = nonZeroOids
	}

	if len(selected) == 0 {
		if len(nonZeroOids) != 0 {
			return nonZeroOids[0], nil
		}
		if filteredTree == objstore.EmptyTreeOid() {
			return objhash.Zero, nil
		}
	}

	out := original.Clone()
	out.TreeID = filteredTree
	out.Parents = selected
	return backend.WriteCommit(ctx, out)
}
