package rewriter

import (
	"context"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// Filter is the structural interface every filter combinator satisfies.
// The concrete variants live in package filter; this package only needs
// their tree-level behavior and canonical spec string to drive a rewrite.
type Filter interface {
	// ApplyToTree derives a filtered tree oid from an original tree oid.
	ApplyToTree(ctx context.Context, backend objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error)
	// Unapply reverse-projects a filtered tree back onto an original
	// parent tree. Returns a NotReversibleError if this variant has no
	// inverse.
	Unapply(ctx context.Context, backend objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error)
	// Spec returns the canonical spec string, used as the cache key.
	Spec() string
	// Prefixes returns declared sub-mount points (nonempty only for Combine).
	Prefixes() map[string]string
}

// CommitApplier is implemented by filter variants that override the
// default commit-lifting behavior (Cutoff, Chain, Fold, Workspace). Filters
// that don't implement it get Engine's default ApplyToCommit.
type CommitApplier interface {
	ApplyToCommit(ctx context.Context, eng *Engine, oid objhash.Oid, c *objstore.Commit, f Filter) (objhash.Oid, error)
}

// Cache is the bidirectional memoizing map the rewriter reads and writes as
// it walks: (spec, original oid) -> filtered oid, and its inverse. cache.Store
// is the persistent, crash-safe implementation; tests may use an in-memory
// stub.
type Cache interface {
	Get(spec string, o objhash.Oid) (objhash.Oid, bool, error)
	Set(spec string, o, f objhash.Oid) error
	GetBackward(spec string, f objhash.Oid) (objhash.Oid, bool, error)
}
