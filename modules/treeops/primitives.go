// Package treeops implements the tree-structural primitives the filter
// combinators are built from: replacing a child or a whole subtree inside a
// tree, looking up a subtree by path, and the two recursive transforms
// (StripedTree, MergedTree) used by Glob/Dirs and Fold/Glob-unapply.
package treeops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// splitPath breaks a "/"-separated path into non-empty components.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// ReplaceChild returns a tree identical to full except that entry name is
// set to oid/kind, or removed if oid is Zero or the empty-tree oid.
func ReplaceChild(ctx context.Context, b objstore.WriteBackend, full *objstore.Tree, name string, oid objhash.Oid, kind fsmode.Kind) (objhash.Oid, error) {
	if full == nil {
		full = objstore.EmptyTree()
	}
	entries := full.Without(name)
	if !oid.IsZero() && oid != objstore.EmptyTreeOid() {
		mode := fsmode.Regular
		if prev, ok := full.Entry(name); ok {
			mode = fsmode.ModeFor(kind, prev.Mode)
		} else {
			mode = fsmode.ModeFor(kind, 0)
		}
		entries = append(entries, objstore.TreeEntry{Name: name, Mode: mode, Oid: oid})
	}
	t, err := objstore.NewTree(entries)
	if err != nil {
		return objhash.Zero, err
	}
	return b.WriteTree(ctx, t)
}

// GetSubtree looks up the oid reachable by path inside tree, if any.
func GetSubtree(ctx context.Context, b objstore.Backend, tree objhash.Oid, path string) (objhash.Oid, bool, error) {
	comps := splitPath(path)
	cur := tree
	for _, name := range comps {
		if cur.IsZero() {
			return objhash.Zero, false, nil
		}
		t, err := b.Tree(ctx, cur)
		if errors.Is(err, objstore.ErrNotFound) {
			return objhash.Zero, false, nil
		}
		if err != nil {
			return objhash.Zero, false, err
		}
		e, ok := t.Entry(name)
		if !ok {
			return objhash.Zero, false, nil
		}
		cur = e.Oid
	}
	return cur, true, nil
}

// ReplaceSubtree returns the oid of a tree identical to full except that the
// subtree reachable by path is set to oid/kind, creating intermediate empty
// trees as needed and dropping any that become empty.
func ReplaceSubtree(ctx context.Context, b objstore.WriteBackend, full objhash.Oid, path string, oid objhash.Oid, kind fsmode.Kind) (objhash.Oid, error) {
	comps := splitPath(path)
	if len(comps) == 0 {
		return oid, nil
	}
	return replaceSubtreeComponents(ctx, b, full, comps, oid, kind)
}

func replaceSubtreeComponents(ctx context.Context, b objstore.WriteBackend, full objhash.Oid, comps []string, oid objhash.Oid, kind fsmode.Kind) (objhash.Oid, error) {
	if len(comps) == 0 {
		return objhash.Zero, fmt.Errorf("treeops: empty path components")
	}
	if len(comps) == 1 {
		fullTree, err := loadOrEmpty(ctx, b, full)
		if err != nil {
			return objhash.Zero, err
		}
		return ReplaceChild(ctx, b, fullTree, comps[0], oid, kind)
	}
	name := comps[len(comps)-1]
	parent := comps[:len(comps)-1]
	parentOid, ok, err := GetSubtree(ctx, b, full, strings.Join(parent, "/"))
	if err != nil {
		return objhash.Zero, err
	}
	var parentTree *objstore.Tree
	if ok {
		parentTree, err = b.Tree(ctx, parentOid)
		if errors.Is(err, objstore.ErrNotFound) {
			parentTree = objstore.EmptyTree()
		} else if err != nil {
			return objhash.Zero, err
		}
	} else {
		parentTree = objstore.EmptyTree()
	}
	newParentOid, err := ReplaceChild(ctx, b, parentTree, name, oid, kind)
	if err != nil {
		return objhash.Zero, err
	}
	return replaceSubtreeComponents(ctx, b, full, parent, newParentOid, fsmode.Tree)
}

func loadOrEmpty(ctx context.Context, b objstore.Backend, oid objhash.Oid) (*objstore.Tree, error) {
	if oid.IsZero() {
		return objstore.EmptyTree(), nil
	}
	t, err := b.Tree(ctx, oid)
	if errors.Is(err, objstore.ErrNotFound) {
		return objstore.EmptyTree(), nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
