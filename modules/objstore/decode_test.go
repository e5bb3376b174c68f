package objstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

func TestTreeEncodeDecodeRoundTrip(t *testing.T) {
	blobOid := objhash.Of([]byte("blob content"))
	tr, err := objstore.NewTree([]objstore.TreeEntry{
		{Name: "a.txt", Mode: fsmode.Regular, Oid: blobOid},
		{Name: "sub", Mode: fsmode.Dir, Oid: objstore.EmptyTreeOid()},
	})
	require.NoError(t, err)

	decoded, err := objstore.DecodeTree(tr.Encode())
	require.NoError(t, err)
	assert.Equal(t, tr.Entries, decoded.Entries)
	assert.Equal(t, tr.Hash(), decoded.Hash())
}

func TestCommitEncodeDecodeRoundTrip(t *testing.T) {
	when := time.Unix(1700000000, 0).In(time.FixedZone("+0200", 2*3600))
	c := &objstore.Commit{
		TreeID:  objhash.Of([]byte("tree")),
		Parents: []objhash.Oid{objhash.Of([]byte("p1")), objhash.Of([]byte("p2"))},
		Author:  objstore.Signature{Name: "A", Email: "a@example.com", When: when},
		Committer: objstore.Signature{
			Name: "B", Email: "b@example.com", When: when,
		},
		ExtraHeaders: []objstore.ExtraHeader{{K: "gpgsig", V: "sig"}},
		Message:      "a commit message\n",
	}

	decoded, err := objstore.DecodeCommit(c.Encode())
	require.NoError(t, err)
	assert.Equal(t, c.TreeID, decoded.TreeID)
	assert.Equal(t, c.Parents, decoded.Parents)
	assert.Equal(t, c.Author.Name, decoded.Author.Name)
	assert.Equal(t, c.Author.Email, decoded.Author.Email)
	assert.Equal(t, c.Author.When.Unix(), decoded.Author.When.Unix())
	assert.Equal(t, c.ExtraHeaders, decoded.ExtraHeaders)
	assert.Equal(t, c.Message, decoded.Message)
	assert.Equal(t, c.Hash(), decoded.Hash())
}
