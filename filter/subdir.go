package filter

import (
	"context"
	"fmt"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
)

// Subdir descends into one path inside a tree, discarding everything else.
// It is the dual of Prefix: ApplyToTree reads the subtree out, Unapply
// grafts a filtered tree back in at the same path under a parent.
type Subdir struct {
	Path string
}

func (s Subdir) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	sub, ok, err := treeops.GetSubtree(ctx, b, oid, s.Path)
	if err != nil {
		return objhash.Zero, err
	}
	if !ok {
		return objstore.EmptyTreeOid(), nil
	}
	return sub, nil
}

func (s Subdir) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error) {
	return treeops.ReplaceSubtree(ctx, b, parent, s.Path, filtered, fsmode.Tree)
}

func (s Subdir) Spec() string { return fmt.Sprintf(":/%s", s.Path) }

func (Subdir) Prefixes() map[string]string { return nil }
