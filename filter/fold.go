package filter

import (
	"context"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/rewriter"
	"github.com/joshproject/josh/modules/treeops"
)

// Fold unions a commit's tree with every one of its already-filtered
// parents' trees into a single combined tree with no content subtracted —
// the opposite move from Subdir/Prefix, which narrow; Fold only ever grows
// what's kept. The filtered parents then go through the usual
// parent-selection rule, so a merge keeps its parents when they differ.
type Fold struct{}

func (Fold) ApplyToTree(_ context.Context, _ objstore.WriteBackend, _ objhash.Oid) (objhash.Oid, error) {
	return objstore.EmptyTreeOid(), nil
}

func (Fold) ApplyToCommit(ctx context.Context, eng *rewriter.Engine, _ objhash.Oid, commit *objstore.Commit, f rewriter.Filter) (objhash.Oid, error) {
	filteredParentIDs, err := eng.FilterParents(ctx, f, commit)
	if err != nil {
		return objhash.Zero, err
	}

	filteredTree := commit.TreeID
	for _, pid := range filteredParentIDs {
		if pid.IsZero() {
			continue
		}
		pc, err := eng.Backend.Commit(ctx, pid)
		if err != nil {
			return objhash.Zero, err
		}
		filteredTree, err = treeops.MergedTree(ctx, eng.Backend, filteredTree, pc.TreeID)
		if err != nil {
			return objhash.Zero, err
		}
	}

	return eng.CreateFilteredCommit(ctx, commit, filteredParentIDs, filteredTree)
}

func (Fold) Unapply(context.Context, objstore.WriteBackend, objhash.Oid, objhash.Oid) (objhash.Oid, error) {
	return objhash.Zero, &NotReversibleError{Spec: ":FOLD"}
}

func (Fold) Spec() string { return ":FOLD" }

func (Fold) Prefixes() map[string]string { return nil }
