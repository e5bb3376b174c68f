package filter

import (
	"context"
	"fmt"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/rewriter"
)

// Cutoff rewrites a commit as a new root: it keeps the original tree
// exactly but severs every parent link, so history before this point stops
// appearing in the filtered graph. Name only distinguishes one Cutoff
// instance's cache entries from another's.
type Cutoff struct {
	Name string
}

func (c Cutoff) ApplyToTree(_ context.Context, _ objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	return oid, nil
}

func (c Cutoff) ApplyToCommit(ctx context.Context, eng *rewriter.Engine, _ objhash.Oid, commit *objstore.Commit, _ rewriter.Filter) (objhash.Oid, error) {
	return eng.CreateFilteredCommit(ctx, commit, nil, commit.TreeID)
}

func (c Cutoff) Unapply(context.Context, objstore.WriteBackend, objhash.Oid, objhash.Oid) (objhash.Oid, error) {
	return objhash.Zero, &NotReversibleError{Spec: c.Spec()}
}

func (c Cutoff) Spec() string { return fmt.Sprintf(":CUTOFF=%s", c.Name) }

func (Cutoff) Prefixes() map[string]string { return nil }
