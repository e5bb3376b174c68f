package rewriter_test

import "github.com/joshproject/josh/modules/objhash"

// memCache is the minimal in-memory rewriter.Cache used across this
// package's tests; cache.Store (goleveldb-backed) is exercised separately.
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
