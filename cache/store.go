// Package cache implements the filter cache (component I): a persistent,
// crash-safe bidirectional mapping (spec, original oid) <-> filtered oid,
// backed by an embedded LSM-tree store so a rewrite can resume across
// process restarts without losing already-computed results.
package cache

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/joshproject/josh/modules/objhash"
)

const (
	forwardPrefix  = 'F'
	backwardPrefix = 'B'
)

// Store is the persistent implementation of rewriter.Cache.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a goleveldb database at path to back the
// filter cache.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenMemory opens an in-memory goleveldb database, useful for tests that
// want Store's exact semantics without touching disk.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func forwardKey(spec string, o objhash.Oid) []byte {
	key := make([]byte, 0, 1+len(spec)+1+objhash.Size)
	key = append(key, forwardPrefix)
	key = append(key, spec...)
	key = append(key, 0)
	key = append(key, o[:]...)
	return key
}

func backwardKey(spec string, f objhash.Oid) []byte {
	key := make([]byte, 0, 1+len(spec)+1+objhash.Size)
	key = append(key, backwardPrefix)
	key = append(key, spec...)
	key = append(key, 0)
	key = append(key, f[:]...)
	return key
}

// Get returns the forward mapping for (spec, o), if present.
func (s *Store) Get(spec string, o objhash.Oid) (objhash.Oid, bool, error) {
	v, err := s.db.Get(forwardKey(spec, o), nil)
	if err == leveldb.ErrNotFound {
		return objhash.Zero, false, nil
	}
	if err != nil {
		return objhash.Zero, false, err
	}
	return decodeOid(v), true, nil
}

// GetBackward returns the backward mapping for (spec, f), if present.
// Entries are never written for f == Zero (many originals filter to
// nothing, and none of them is the canonical preimage of Zero).
func (s *Store) GetBackward(spec string, f objhash.Oid) (objhash.Oid, bool, error) {
	v, err := s.db.Get(backwardKey(spec, f), nil)
	if err == leveldb.ErrNotFound {
		return objhash.Zero, false, nil
	}
	if err != nil {
		return objhash.Zero, false, err
	}
	return decodeOid(v), true, nil
}

// Set records the forward and (unless f is Zero) backward mapping for
// (spec, o) -> f in a single atomic batch write.
func (s *Store) Set(spec string, o, f objhash.Oid) error {
	var batch leveldb.Batch
	batch.Put(forwardKey(spec, o), f[:])
	if !f.IsZero() {
		batch.Put(backwardKey(spec, f), o[:])
	}
	return s.db.Write(&batch, nil)
}

// Stats returns goleveldb's internal "leveldb.stats" property, the same
// diagnostic text `josh cache stats` prints.
func (s *Store) Stats() (string, error) {
	return s.db.GetProperty("leveldb.stats")
}

// Compact runs a full-range compaction, reclaiming space left behind by
// superseded cache entries.
func (s *Store) Compact() error {
	return s.db.CompactRange(util.Range{})
}

func decodeOid(v []byte) objhash.Oid {
	var o objhash.Oid
	copy(o[:], v)
	return o
}
