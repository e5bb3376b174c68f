package rewriter_test

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

func sig(name string, when time.Time) objstore.Signature {
	return objstore.Signature{Name: name, Email: name + "@example.com", When: when}
}

func writeCommit(t *testing.T, ctx context.Context, b objstore.WriteBackend, tree objhash.Oid, parents []objhash.Oid, msg string, when time.Time) objhash.Oid {
	t.Helper()
	c := &objstore.Commit{
		TreeID:    tree,
		Parents:   parents,
		Author:    sig("a", when),
		Committer: sig("a", when),
		Message:   msg,
	}
	oid, err := b.WriteCommit(ctx, c)
	require.NoError(t, err)
	return oid
}

func TestNopIdentity(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("content"))
	require.NoError(t, err)
	tree, err := treeops.ReplaceChild(ctx, b, objstore.EmptyTree(), "f.txt", blob, fsmode.Blob)
	require.NoError(t, err)

	root := writeCommit(t, ctx, b, tree, nil, "root", time.Unix(1000, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, root, filter.Nop{})
	require.NoError(t, err)
	assert.Equal(t, root, out)
}

func TestEmptyAnnihilatesHistory(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("content"))
	require.NoError(t, err)
	tree, err := treeops.ReplaceChild(ctx, b, objstore.EmptyTree(), "f.txt", blob, fsmode.Blob)
	require.NoError(t, err)
	root := writeCommit(t, ctx, b, tree, nil, "root", time.Unix(1000, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, root, filter.Empty{})
	require.NoError(t, err)
	assert.True(t, out.IsZero())
}

func TestSubdirKeepsOnlyThatPath(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("lib content"))
	require.NoError(t, err)

	tree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "lib/a.go", blob, fsmode.Blob)
	require.NoError(t, err)
	tree, err = treeops.ReplaceSubtree(ctx, b, tree, "docs/readme.md", blob, fsmode.Blob)
	require.NoError(t, err)

	root := writeCommit(t, ctx, b, tree, nil, "root", time.Unix(1000, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, root, filter.Subdir{Path: "lib"})
	require.NoError(t, err)
	require.False(t, out.IsZero())

	filteredCommit, err := b.Commit(ctx, out)
	require.NoError(t, err)
	filteredTree, err := b.Tree(ctx, filteredCommit.TreeID)
	require.NoError(t, err)
	_, ok := filteredTree.Entry("a.go")
	assert.True(t, ok)
	assert.Empty(t, filteredCommit.Parents)
}

func TestLinearHistoryCollapsesNoOpCommits(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	libBlob, err := b.WriteBlob(ctx, []byte("v1"))
	require.NoError(t, err)
	otherBlob, err := b.WriteBlob(ctx, []byte("unrelated v1"))
	require.NoError(t, err)

	tree1, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "lib/a.go", libBlob, fsmode.Blob)
	require.NoError(t, err)
	tree1, err = treeops.ReplaceSubtree(ctx, b, tree1, "other/b.txt", otherBlob, fsmode.Blob)
	require.NoError(t, err)
	c1 := writeCommit(t, ctx, b, tree1, nil, "first", time.Unix(1000, 0))

	otherBlob2, err := b.WriteBlob(ctx, []byte("unrelated v2"))
	require.NoError(t, err)
	tree2, err := treeops.ReplaceSubtree(ctx, b, tree1, "other/b.txt", otherBlob2, fsmode.Blob)
	require.NoError(t, err)
	c2 := writeCommit(t, ctx, b, tree2, []objhash.Oid{c1}, "touches only other/", time.Unix(1001, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, c2, filter.Subdir{Path: "lib"})
	require.NoError(t, err)

	filtered1, err := eng.ApplyFilterCached(ctx, c1, filter.Subdir{Path: "lib"})
	require.NoError(t, err)

	// c2 never touches lib/, so its filtered commit collapses into c1's.
	assert.Equal(t, filtered1, out)
}

func TestChainComposesSequentially(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("x"))
	require.NoError(t, err)
	tree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "a/b/c.txt", blob, fsmode.Blob)
	require.NoError(t, err)
	root := writeCommit(t, ctx, b, tree, nil, "root", time.Unix(1000, 0))

	chained := filter.Chain{First: filter.Subdir{Path: "a"}, Second: filter.Subdir{Path: "b"}}
	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, root, chained)
	require.NoError(t, err)
	require.False(t, out.IsZero())

	direct, err := eng.ApplyFilterCached(ctx, root, filter.Subdir{Path: "a/b"})
	require.NoError(t, err)

	outCommit, err := b.Commit(ctx, out)
	require.NoError(t, err)
	directCommit, err := b.Commit(ctx, direct)
	require.NoError(t, err)
	assert.Equal(t, directCommit.TreeID, outCommit.TreeID)
}
