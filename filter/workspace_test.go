package filter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshproject/josh/filter"
	"github.com/joshproject/josh/memstore"
	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
	"github.com/joshproject/josh/rewriter"
)

func TestWorkspaceResolvesMountsFromWorkspaceFile(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()

	wsBlob, err := b.WriteBlob(ctx, []byte("lib = :/src/lib\n"))
	require.NoError(t, err)
	libBlob, err := b.WriteBlob(ctx, []byte("package lib"))
	require.NoError(t, err)

	tree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "workspace.josh", wsBlob, fsmode.Blob)
	require.NoError(t, err)
	tree, err = treeops.ReplaceSubtree(ctx, b, tree, "src/lib/a.go", libBlob, fsmode.Blob)
	require.NoError(t, err)

	w := filter.Workspace{WsPath: ""}
	out, err := w.ApplyToTree(ctx, b, tree)
	require.NoError(t, err)

	_, ok, err := treeops.GetSubtree(ctx, b, out, "lib/a.go")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWorkspaceMissingFileFallsBackToBaseSubdirWithNoMounts(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("x"))
	require.NoError(t, err)
	tree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "root/a.txt", blob, fsmode.Blob)
	require.NoError(t, err)

	w := filter.Workspace{WsPath: "root"}
	out, err := w.ApplyToTree(ctx, b, tree)
	require.NoError(t, err)

	_, ok, err := treeops.GetSubtree(ctx, b, out, "a.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestWorkspaceAddedMountSplicesSyntheticFirstParent covers S6: a child
// commit whose workspace.josh adds a mount absent from its parent's
// workspace.josh gets an extra synthesized parent carrying that mount's own
// filtered history, spliced in on top of the parent's regularly-filtered
// commit.
func TestWorkspaceAddedMountSplicesSyntheticFirstParent(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()

	subBlob, err := b.WriteBlob(ctx, []byte("package sub"))
	require.NoError(t, err)

	parentWsBlob, err := b.WriteBlob(ctx, []byte(""))
	require.NoError(t, err)
	parentTree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "ws/workspace.josh", parentWsBlob, fsmode.Blob)
	require.NoError(t, err)
	parentTree, err = treeops.ReplaceSubtree(ctx, b, parentTree, "libs/sub/a.go", subBlob, fsmode.Blob)
	require.NoError(t, err)
	parent := writeCommit(t, ctx, b, parentTree, nil, "parent", time.Unix(1000, 0))

	childWsBlob, err := b.WriteBlob(ctx, []byte("sub = :/libs/sub\n"))
	require.NoError(t, err)
	childTree, err := treeops.ReplaceSubtree(ctx, b, parentTree, "ws/workspace.josh", childWsBlob, fsmode.Blob)
	require.NoError(t, err)
	child := writeCommit(t, ctx, b, childTree, []objhash.Oid{parent}, "child adds sub mount", time.Unix(1001, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	w := filter.Workspace{WsPath: "ws"}
	out, err := eng.ApplyFilterCached(ctx, child, w)
	require.NoError(t, err)
	require.False(t, out.IsZero())

	filtered, err := b.Commit(ctx, out)
	require.NoError(t, err)

	filteredParent, err := eng.ApplyFilterCached(ctx, parent, w)
	require.NoError(t, err)

	require.Len(t, filtered.Parents, 2)
	assert.Contains(t, filtered.Parents, filteredParent)

	var spliced objhash.Oid
	for _, p := range filtered.Parents {
		if p != filteredParent {
			spliced = p
		}
	}
	require.False(t, spliced.IsZero())

	splicedCommit, err := b.Commit(ctx, spliced)
	require.NoError(t, err)
	_, ok, err := treeops.GetSubtree(ctx, b, splicedCommit.TreeID, "sub/a.go")
	require.NoError(t, err)
	assert.True(t, ok)
}
