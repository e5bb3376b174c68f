package filter

import (
	"context"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// Empty discards everything, always producing the empty tree. Its Unapply
// is the dual: it ignores the filtered side entirely and returns the
// parent tree untouched, which is what makes Chain(Empty, X) reversible
// despite Empty throwing away all information going forward.
type Empty struct{}

func (Empty) ApplyToTree(_ context.Context, _ objstore.WriteBackend, _ objhash.Oid) (objhash.Oid, error) {
	return objstore.EmptyTreeOid(), nil
}

func (Empty) Unapply(_ context.Context, _ objstore.WriteBackend, _, parent objhash.Oid) (objhash.Oid, error) {
	return parent, nil
}

func (Empty) Spec() string { return ":empty" }

func (Empty) Prefixes() map[string]string { return nil }
