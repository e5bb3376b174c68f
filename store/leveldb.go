// Package store implements a persistent content-addressed objstore.Backend
// on top of goleveldb — the on-disk counterpart to memstore, used by the
// CLI wherever a rewrite needs to survive past one process lifetime.
package store

import (
	"context"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

const (
	kindTree   = 't'
	kindCommit = 'c'
	kindBlob   = 'b'
)

// Store is a goleveldb-backed objstore.WriteBackend. Objects are keyed by
// a one-byte kind tag followed by their oid, so trees, commits and blobs
// share one database without name collisions even though their oids are
// all drawn from the same BLAKE3 space.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a goleveldb database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func objKey(kind byte, o objhash.Oid) []byte {
	key := make([]byte, 0, 1+objhash.Size)
	key = append(key, kind)
	key = append(key, o[:]...)
	return key
}

// Tree implements objstore.Backend.
func (s *Store) Tree(_ context.Context, oid objhash.Oid) (*objstore.Tree, error) {
	v, err := s.db.Get(objKey(kindTree, oid), nil)
	if err == leveldb.ErrNotFound {
		return nil, objstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return objstore.DecodeTree(v)
}

// Commit implements objstore.Backend.
func (s *Store) Commit(_ context.Context, oid objhash.Oid) (*objstore.Commit, error) {
	v, err := s.db.Get(objKey(kindCommit, oid), nil)
	if err == leveldb.ErrNotFound {
		return nil, objstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return objstore.DecodeCommit(v)
}

// Blob implements objstore.Backend.
func (s *Store) Blob(_ context.Context, oid objhash.Oid) ([]byte, error) {
	v, err := s.db.Get(objKey(kindBlob, oid), nil)
	if err == leveldb.ErrNotFound {
		return nil, objstore.ErrNotFound
	}
	return v, err
}

// WriteTree implements objstore.WriteBackend.
func (s *Store) WriteTree(ctx context.Context, t *objstore.Tree) (objhash.Oid, error) {
	oid := t.Hash()
	if err := s.db.Put(objKey(kindTree, oid), t.Encode(), nil); err != nil {
		return objhash.Zero, fmt.Errorf("store: writing tree %s: %w", oid, err)
	}
	return oid, nil
}

// WriteBlob implements objstore.WriteBackend.
func (s *Store) WriteBlob(ctx context.Context, content []byte) (objhash.Oid, error) {
	oid := objhash.Of(content)
	if err := s.db.Put(objKey(kindBlob, oid), content, nil); err != nil {
		return objhash.Zero, fmt.Errorf("store: writing blob %s: %w", oid, err)
	}
	return oid, nil
}

// WriteCommit implements objstore.WriteBackend.
func (s *Store) WriteCommit(ctx context.Context, c *objstore.Commit) (objhash.Oid, error) {
	oid := c.Hash()
	if err := s.db.Put(objKey(kindCommit, oid), c.Encode(), nil); err != nil {
		return objhash.Zero, fmt.Errorf("store: writing commit %s: %w", oid, err)
	}
	return oid, nil
}

var _ objstore.WriteBackend = (*Store)(nil)
