package filter

import (
	"context"
	"fmt"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
)

// Prefix is the dual of Subdir: it grafts a whole tree under one path in an
// otherwise empty tree. ApplyToTree buries the tree under Path; Unapply
// reads it back out, ignoring whatever else the "parent" side held.
type Prefix struct {
	Path string
}

func (p Prefix) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	return treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), p.Path, oid, fsmode.Tree)
}

func (p Prefix) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, _ objhash.Oid) (objhash.Oid, error) {
	sub, ok, err := treeops.GetSubtree(ctx, b, filtered, p.Path)
	if err != nil {
		return objhash.Zero, err
	}
	if !ok {
		return objstore.EmptyTreeOid(), nil
	}
	return sub, nil
}

func (p Prefix) Spec() string { return fmt.Sprintf(":prefix=%s", p.Path) }

func (Prefix) Prefixes() map[string]string { return nil }
