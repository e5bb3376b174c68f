package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
)

// Hide removes one subtree, keeping the rest of the tree intact. Unapplying
// restores whatever lived at that path in the original parent, so a
// filtered commit that never touches the hidden path round-trips exactly.
type Hide struct {
	Path string
}

func (h Hide) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	return treeops.ReplaceSubtree(ctx, b, oid, h.Path, objhash.Zero, fsmode.Tree)
}

func (h Hide) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error) {
	hidden, ok, err := treeops.GetSubtree(ctx, b, parent, h.Path)
	if err != nil {
		return objhash.Zero, err
	}
	kind := fsmode.Tree
	if !ok {
		hidden = objhash.Zero
	} else if _, err := b.Tree(ctx, hidden); errors.Is(err, objstore.ErrNotFound) {
		kind = fsmode.Blob
	} else if err != nil {
		return objhash.Zero, err
	}
	return treeops.ReplaceSubtree(ctx, b, filtered, h.Path, hidden, kind)
}

func (h Hide) Spec() string { return fmt.Sprintf(":hide=%s", h.Path) }

func (Hide) Prefixes() map[string]string { return nil }
