package filter

import (
	"context"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// Nop passes a tree through unchanged. It is the identity of Chain, and a
// Chain whose spec string starts with ":nop" prints without that one
// leading token.
type Nop struct{}

func (Nop) ApplyToTree(_ context.Context, _ objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	return oid, nil
}

func (Nop) Unapply(_ context.Context, _ objstore.WriteBackend, filtered, _ objhash.Oid) (objhash.Oid, error) {
	return filtered, nil
}

func (Nop) Spec() string { return ":nop" }

func (Nop) Prefixes() map[string]string { return nil }
