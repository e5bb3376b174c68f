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

type memCache struct {
	forward  map[string]objhash.Oid
	backward map[string]objhash.Oid
}

func newMemCache() *memCache {
	return &memCache{forward: map[string]objhash.Oid{}, backward: map[string]objhash.Oid{}}
}

func (c *memCache) Get(spec string, o objhash.Oid) (objhash.Oid, bool, error) {
	v, ok := c.forward[spec+"\x00"+string(o[:])]
	return v, ok, nil
}

func (c *memCache) Set(spec string, o, f objhash.Oid) error {
	c.forward[spec+"\x00"+string(o[:])] = f
	if !f.IsZero() {
		c.backward[spec+"\x00"+string(f[:])] = o
	}
	return nil
}

func (c *memCache) GetBackward(spec string, f objhash.Oid) (objhash.Oid, bool, error) {
	v, ok := c.backward[spec+"\x00"+string(f[:])]
	return v, ok, nil
}

func sig(name string, when time.Time) objstore.Signature {
	return objstore.Signature{Name: name, Email: name + "@example.com", When: when}
}

func writeCommit(t *testing.T, ctx context.Context, b objstore.WriteBackend, tree objhash.Oid, parents []objhash.Oid, msg string, when time.Time) objhash.Oid {
	t.Helper()
	c := &objstore.Commit{TreeID: tree, Parents: parents, Author: sig("a", when), Committer: sig("a", when), Message: msg}
	oid, err := b.WriteCommit(ctx, c)
	require.NoError(t, err)
	return oid
}

func TestCutoffSeversParents(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("x"))
	require.NoError(t, err)
	tree, err := treeops.ReplaceChild(ctx, b, objstore.EmptyTree(), "f.txt", blob, fsmode.Blob)
	require.NoError(t, err)

	root := writeCommit(t, ctx, b, tree, nil, "root", time.Unix(1000, 0))
	child := writeCommit(t, ctx, b, tree, []objhash.Oid{root}, "child", time.Unix(1001, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, child, filter.Cutoff{Name: "v1"})
	require.NoError(t, err)
	require.False(t, out.IsZero())

	filtered, err := b.Commit(ctx, out)
	require.NoError(t, err)
	assert.Empty(t, filtered.Parents)
	assert.Equal(t, tree, filtered.TreeID)
}

func TestFoldUnionsParentTreesWithoutSubtracting(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()

	aBlob, err := b.WriteBlob(ctx, []byte("a"))
	require.NoError(t, err)
	bBlob, err := b.WriteBlob(ctx, []byte("b"))
	require.NoError(t, err)

	tree1, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "a.txt", aBlob, fsmode.Blob)
	require.NoError(t, err)
	p1 := writeCommit(t, ctx, b, tree1, nil, "p1", time.Unix(1000, 0))

	tree2, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "b.txt", bBlob, fsmode.Blob)
	require.NoError(t, err)
	p2 := writeCommit(t, ctx, b, tree2, nil, "p2", time.Unix(1001, 0))

	mergeTree, err := treeops.ReplaceSubtree(ctx, b, tree1, "b.txt", bBlob, fsmode.Blob)
	require.NoError(t, err)
	merge := writeCommit(t, ctx, b, mergeTree, []objhash.Oid{p1, p2}, "merge", time.Unix(1002, 0))

	eng := rewriter.New(b, newMemCache(), nil)
	out, err := eng.ApplyFilterCached(ctx, merge, filter.Fold{})
	require.NoError(t, err)
	require.False(t, out.IsZero())

	filtered, err := b.Commit(ctx, out)
	require.NoError(t, err)
	filteredTree, err := b.Tree(ctx, filtered.TreeID)
	require.NoError(t, err)

	_, ok := filteredTree.Entry("a.txt")
	assert.True(t, ok)
	_, ok = filteredTree.Entry("b.txt")
	assert.True(t, ok)
}

func TestCombineMountsOtherFilterAtPrefix(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	libBlob, err := b.WriteBlob(ctx, []byte("lib"))
	require.NoError(t, err)
	vendorBlob, err := b.WriteBlob(ctx, []byte("vendor"))
	require.NoError(t, err)

	tree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "src/lib/a.go", libBlob, fsmode.Blob)
	require.NoError(t, err)
	tree, err = treeops.ReplaceSubtree(ctx, b, tree, "vendor/x.go", vendorBlob, fsmode.Blob)
	require.NoError(t, err)

	c := &filter.Combine{
		Base: filter.Subdir{Path: "src/lib"},
		Mounts: []filter.Mount{
			{Prefix: "third_party", Other: filter.Subdir{Path: "vendor"}},
		},
	}

	out, err := c.ApplyToTree(ctx, b, tree)
	require.NoError(t, err)

	_, ok, err := treeops.GetSubtree(ctx, b, out, "a.go")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = treeops.GetSubtree(ctx, b, out, "third_party/x.go")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInfoFileWritesJoshinfoBlob(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()
	blob, err := b.WriteBlob(ctx, []byte("x"))
	require.NoError(t, err)
	tree, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "lib/a.go", blob, fsmode.Blob)
	require.NoError(t, err)

	f := filter.InfoFile{Values: map[string]string{"prefix": "lib", "rev": "deadbeef"}}
	out, err := f.ApplyToTree(ctx, b, tree)
	require.NoError(t, err)

	infoOid, ok, err := treeops.GetSubtree(ctx, b, out, "lib/.joshinfo")
	require.NoError(t, err)
	require.True(t, ok)
	content, err := b.Blob(ctx, infoOid)
	require.NoError(t, err)
	assert.Contains(t, string(content), "rev: deadbeef\n")
}
