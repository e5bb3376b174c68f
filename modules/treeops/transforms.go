package treeops

import (
	"context"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/globmatch"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// stripedKey is the memoization key for StripedTree: the input oid and the
// root path prefix already consumed (a given oid can be visited at more
// than one root as the engine revisits shared history, so both must be
// part of the key).
type stripedKey struct {
	input objhash.Oid
	root  string
}

// StripedMemo is the per-filter memo table backing StripedTree, mirroring
// the specification's "interior mutability over a single-threaded
// invocation": a plain map guarded by nothing more than single-threaded
// use within one filtering pass. Glob and Dirs each own one.
type StripedMemo struct {
	m map[stripedKey]objhash.Oid
}

// NewStripedMemo returns an empty memo table.
func NewStripedMemo() *StripedMemo {
	return &StripedMemo{m: make(map[stripedKey]objhash.Oid)}
}

// StripedTree recursively filters tree `input`, keeping exactly the blobs
// whose full path (root-joined) matches pattern XOR invert. When markDirs
// is set, every surviving non-root directory gets an extra
// JOSH_ORIG_PATH_<escaped> marker blob recording its original path.
func StripedTree(ctx context.Context, b objstore.WriteBackend, memo *StripedMemo, root string, input objhash.Oid, pattern *globmatch.Pattern, invert, markDirs bool) (objhash.Oid, error) {
	key := stripedKey{input: input, root: root}
	if cached, ok := memo.m[key]; ok {
		return cached, nil
	}
	out, err := stripedTreeUncached(ctx, b, memo, root, input, pattern, invert, markDirs)
	if err != nil {
		return objhash.Zero, err
	}
	memo.m[key] = out
	return out, nil
}

func stripedTreeUncached(ctx context.Context, b objstore.WriteBackend, memo *StripedMemo, root string, input objhash.Oid, pattern *globmatch.Pattern, invert, markDirs bool) (objhash.Oid, error) {
	tree, err := loadOrEmpty(ctx, b, input)
	if err != nil {
		return objhash.Zero, err
	}
	result := objstore.EmptyTreeOid()
	for _, entry := range tree.Entries {
		childPath := entry.Name
		if root != "" {
			childPath = root + "/" + entry.Name
		}
		switch entry.Kind() {
		case fsmode.Blob:
			if pattern.Match(childPath) != invert {
				result, err = ReplaceChild(ctx, b, mustTree(ctx, b, result), entry.Name, entry.Oid, fsmode.Blob)
				if err != nil {
					return objhash.Zero, err
				}
			}
		case fsmode.Tree:
			sub, err := StripedTree(ctx, b, memo, childPath, entry.Oid, pattern, invert, markDirs)
			if err != nil {
				return objhash.Zero, err
			}
			if sub != objstore.EmptyTreeOid() {
				result, err = ReplaceChild(ctx, b, mustTree(ctx, b, result), entry.Name, sub, fsmode.Tree)
				if err != nil {
					return objhash.Zero, err
				}
			}
		}
	}
	if markDirs && root != "" {
		emptyBlob, err := b.WriteBlob(ctx, nil)
		if err != nil {
			return objhash.Zero, err
		}
		markerName := "JOSH_ORIG_PATH_" + ToNamespace(root)
		result, err = ReplaceChild(ctx, b, mustTree(ctx, b, result), markerName, emptyBlob, fsmode.Blob)
		if err != nil {
			return objhash.Zero, err
		}
	}
	return result, nil
}

func mustTree(ctx context.Context, b objstore.Backend, oid objhash.Oid) *objstore.Tree {
	t, err := loadOrEmpty(ctx, b, oid)
	if err != nil {
		return objstore.EmptyTree()
	}
	return t
}

// MergedTree computes the deep key-union of two trees: on a name collision
// at a tree position it recurses; on a collision at a blob/mixed position
// it keeps a's entry. a==b and either-empty are short-circuited.
func MergedTree(ctx context.Context, b objstore.WriteBackend, a, c objhash.Oid) (objhash.Oid, error) {
	if a == c {
		return a, nil
	}
	empty := objstore.EmptyTreeOid()
	if a == empty {
		return c, nil
	}
	if c == empty {
		return a, nil
	}
	treeA, errA := b.Tree(ctx, a)
	treeB, errB := b.Tree(ctx, c)
	if errA != nil {
		return objhash.Zero, errA
	}
	if errB != nil {
		return objhash.Zero, errB
	}
	result := treeA
	for _, entryB := range treeB.Entries {
		if entryA, ok := treeA.Entry(entryB.Name); ok {
			if entryA.Kind() == fsmode.Tree && entryB.Kind() == fsmode.Tree {
				merged, err := MergedTree(ctx, b, entryA.Oid, entryB.Oid)
				if err != nil {
					return objhash.Zero, err
				}
				newOid, err := ReplaceChild(ctx, b, result, entryB.Name, merged, fsmode.Tree)
				if err != nil {
					return objhash.Zero, err
				}
				result, err = loadOrEmpty(ctx, b, newOid)
				if err != nil {
					return objhash.Zero, err
				}
				continue
			}
			// Collision at a blob/mixed position: keep a's entry (no-op).
			continue
		}
		newOid, err := ReplaceChild(ctx, b, result, entryB.Name, entryB.Oid, entryB.Kind())
		if err != nil {
			return objhash.Zero, err
		}
		result, err = loadOrEmpty(ctx, b, newOid)
		if err != nil {
			return objhash.Zero, err
		}
	}
	return result.Hash(), nil
}
