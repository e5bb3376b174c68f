package treeops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshproject/josh/memstore"
	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
)

func TestReplaceSubtreeAndGetSubtreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()

	blobOid, err := b.WriteBlob(ctx, []byte("hello"))
	require.NoError(t, err)

	full, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "a/b/c.txt", blobOid, fsmode.Blob)
	require.NoError(t, err)

	got, ok, err := treeops.GetSubtree(ctx, b, full, "a/b/c.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, blobOid, got)

	_, ok, err = treeops.GetSubtree(ctx, b, full, "a/nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplaceSubtreeWithZeroDropsEmptyParents(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()

	blobOid, err := b.WriteBlob(ctx, []byte("x"))
	require.NoError(t, err)

	full, err := treeops.ReplaceSubtree(ctx, b, objstore.EmptyTreeOid(), "a/b.txt", blobOid, fsmode.Blob)
	require.NoError(t, err)

	cleared, err := treeops.ReplaceSubtree(ctx, b, full, "a/b.txt", objhash.Zero, fsmode.Blob)
	require.NoError(t, err)
	assert.Equal(t, objstore.EmptyTreeOid(), cleared)
}

func TestReplaceChildNewBlobEntryIsRegular(t *testing.T) {
	ctx := context.Background()
	b := memstore.New()

	blobOid, err := b.WriteBlob(ctx, []byte("#!/bin/sh\n"))
	require.NoError(t, err)

	tr := objstore.EmptyTree()
	full, err := treeops.ReplaceChild(ctx, b, tr, "run.sh", blobOid, fsmode.Blob)
	require.NoError(t, err)
	tree, err := b.Tree(ctx, full)
	require.NoError(t, err)
	entry, ok := tree.Entry("run.sh")
	require.True(t, ok)
	assert.Equal(t, fsmode.Regular, entry.Mode)
}
