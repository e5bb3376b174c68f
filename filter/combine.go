package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/rewriter"
	"github.com/joshproject/josh/modules/treeops"
)

// Mount is one entry of a Combine filter: Other's output is grafted at
// Prefix inside Base's output, in list order — later mounts overwrite
// earlier ones or Base wherever prefixes overlap.
type Mount struct {
	Prefix string
	Other  rewriter.Filter
}

// Combine overlays a base filter's tree with zero or more other filters
// mounted at distinct prefixes. It is the engine backing both an explicit
// `:workspace=` combine and the workspace file's "PREFIX = SPEC" entries.
type Combine struct {
	Base   rewriter.Filter
	Mounts []Mount
}

func (c *Combine) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	base, err := c.Base.ApplyToTree(ctx, b, oid)
	if err != nil {
		return objhash.Zero, err
	}
	for _, m := range c.Mounts {
		ot, err := m.Other.ApplyToTree(ctx, b, oid)
		if err != nil {
			return objhash.Zero, err
		}
		if ot == objstore.EmptyTreeOid() {
			continue
		}
		base, err = treeops.ReplaceSubtree(ctx, b, base, m.Prefix, ot, fsmode.Tree)
		if err != nil {
			return objhash.Zero, err
		}
	}
	return base, nil
}

func (c *Combine) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error) {
	wsTree := filtered
	result := parent
	for _, m := range c.Mounts {
		sub, ok, err := treeops.GetSubtree(ctx, b, wsTree, m.Prefix)
		if err != nil {
			return objhash.Zero, err
		}
		wsTree, err = treeops.ReplaceSubtree(ctx, b, wsTree, m.Prefix, objstore.EmptyTreeOid(), fsmode.Tree)
		if err != nil {
			return objhash.Zero, err
		}
		if !ok || sub == objstore.EmptyTreeOid() {
			continue
		}
		result, err = m.Other.Unapply(ctx, b, sub, result)
		if err != nil {
			return objhash.Zero, err
		}
	}
	return c.Base.Unapply(ctx, b, wsTree, result)
}

func (c *Combine) Spec() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "/ = %s", c.Base.Spec())
	for _, m := range c.Mounts {
		fmt.Fprintf(&sb, "\n%s = %s", m.Prefix, m.Other.Spec())
	}
	return sb.String()
}

func (c *Combine) Prefixes() map[string]string {
	p := make(map[string]string, len(c.Mounts))
	for _, m := range c.Mounts {
		p[m.Prefix] = m.Other.Spec()
	}
	return p
}
