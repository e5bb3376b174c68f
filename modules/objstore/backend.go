package objstore

import (
	"context"
	"errors"

	"github.com/joshproject/josh/modules/objhash"
)

// ErrNotFound is returned by a Backend when an oid does not resolve to an
// object of the requested kind.
var ErrNotFound = errors.New("objstore: object not found")

// Backend is the read-only external collaborator: the concrete,
// content-addressed object store the engine is filtering. Implementations
// live outside this module's scope (on-disk pack/loose storage, a remote
// proxy, ...); memstore.Store is the in-repo reference implementation used
// by tests.
type Backend interface {
	Tree(ctx context.Context, oid objhash.Oid) (*Tree, error)
	Commit(ctx context.Context, oid objhash.Oid) (*Commit, error)
	Blob(ctx context.Context, oid objhash.Oid) ([]byte, error)
}

// WriteBackend extends Backend with the ability to materialize new objects,
// used by the commit-builder and by combinators that synthesize marker or
// info blobs (InfoFile, StripedTree's JOSH_ORIG_PATH markers).
type WriteBackend interface {
	Backend
	WriteTree(ctx context.Context, t *Tree) (objhash.Oid, error)
	WriteBlob(ctx context.Context, content []byte) (objhash.Oid, error)
	WriteCommit(ctx context.Context, c *Commit) (objhash.Oid, error)
}
