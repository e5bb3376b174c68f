// Package memstore provides a minimal, fully in-memory implementation of
// objstore.Backend/WriteBackend. It exists so the filter engine and its
// tests can be driven end to end without a real on-disk object store: no
// packing, no compression, no persistence. Production backends are the
// out-of-scope collaborator the specification names.
package memstore

import (
	"context"
	"sync"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// Store is a content-addressed object store backed by plain Go maps,
// guarded by a single mutex. It satisfies objstore.WriteBackend.
type Store struct {
	mu      sync.RWMutex
	trees   map[objhash.Oid]*objstore.Tree
	commits map[objhash.Oid]*objstore.Commit
	blobs   map[objhash.Oid][]byte
}

// New returns an empty Store, pre-seeded with the well-known empty tree.
func New() *Store {
	s := &Store{
		trees:   make(map[objhash.Oid]*objstore.Tree),
		commits: make(map[objhash.Oid]*objstore.Commit),
		blobs:   make(map[objhash.Oid][]byte),
	}
	empty := objstore.EmptyTree()
	s.trees[empty.Hash()] = empty
	return s
}

var _ objstore.WriteBackend = (*Store)(nil)

func (s *Store) Tree(_ context.Context, oid objhash.Oid) (*objstore.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trees[oid]
	if !ok {
		return nil, objstore.ErrNotFound
	}
	return t, nil
}

func (s *Store) Commit(_ context.Context, oid objhash.Oid) (*objstore.Commit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.commits[oid]
	if !ok {
		return nil, objstore.ErrNotFound
	}
	return c, nil
}

func (s *Store) Blob(_ context.Context, oid objhash.Oid) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[oid]
	if !ok {
		return nil, objstore.ErrNotFound
	}
	return b, nil
}

func (s *Store) WriteTree(_ context.Context, t *objstore.Tree) (objhash.Oid, error) {
	oid := t.Hash()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[oid]; !ok {
		s.trees[oid] = t
	}
	return oid, nil
}

func (s *Store) WriteBlob(_ context.Context, content []byte) (objhash.Oid, error) {
	oid := objhash.Of(content)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[oid]; !ok {
		cp := append([]byte(nil), content...)
		s.blobs[oid] = cp
	}
	return oid, nil
}

func (s *Store) WriteCommit(_ context.Context, c *objstore.Commit) (objhash.Oid, error) {
	oid := c.Hash()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commits[oid]; !ok {
		s.commits[oid] = c
	}
	return oid, nil
}
