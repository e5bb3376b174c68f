package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/joshproject/josh/modules/objhash"
)

// Layered wraps a persistent Store with a bounded in-memory ristretto layer,
// so a rewrite revisiting the same (spec, oid) many times within one pass
// (common under Chain and Workspace) doesn't round-trip through goleveldb
// every time.
type Layered struct {
	persistent *Store
	mem        *ristretto.Cache[string, objhash.Oid]
}

// NewLayered wraps persistent with an in-memory cache sized by
// numCounters/maxCost/bufferItems (see config.MemCache).
func NewLayered(persistent *Store, numCounters, maxCost, bufferItems int64) (*Layered, error) {
	mem, err := ristretto.NewCache(&ristretto.Config[string, objhash.Oid]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: initializing memory layer: %w", err)
	}
	return &Layered{persistent: persistent, mem: mem}, nil
}

func memForwardKey(spec string, o objhash.Oid) string {
	return "F" + spec + "\x00" + string(o[:])
}

func memBackwardKey(spec string, f objhash.Oid) string {
	return "B" + spec + "\x00" + string(f[:])
}

// Get implements rewriter.Cache.
func (l *Layered) Get(spec string, o objhash.Oid) (objhash.Oid, bool, error) {
	if v, ok := l.mem.Get(memForwardKey(spec, o)); ok {
		return v, true, nil
	}
	v, ok, err := l.persistent.Get(spec, o)
	if err != nil || !ok {
		return v, ok, err
	}
	l.mem.Set(memForwardKey(spec, o), v, 1)
	return v, true, nil
}

// GetBackward implements rewriter.Cache.
func (l *Layered) GetBackward(spec string, f objhash.Oid) (objhash.Oid, bool, error) {
	if v, ok := l.mem.Get(memBackwardKey(spec, f)); ok {
		return v, true, nil
	}
	v, ok, err := l.persistent.GetBackward(spec, f)
	if err != nil || !ok {
		return v, ok, err
	}
	l.mem.Set(memBackwardKey(spec, f), v, 1)
	return v, true, nil
}

// Set implements rewriter.Cache.
func (l *Layered) Set(spec string, o, f objhash.Oid) error {
	if err := l.persistent.Set(spec, o, f); err != nil {
		return err
	}
	l.mem.Set(memForwardKey(spec, o), f, 1)
	if !f.IsZero() {
		l.mem.Set(memBackwardKey(spec, f), o, 1)
	}
	return nil
}

// Close releases both layers.
func (l *Layered) Close() error {
	l.mem.Close()
	return l.persistent.Close()
}

// Stats delegates to the persistent layer.
func (l *Layered) Stats() (string, error) {
	return l.persistent.Stats()
}

// Compact delegates to the persistent layer; it does not affect the
// bounded in-memory layer, which ristretto itself keeps within budget.
func (l *Layered) Compact() error {
	return l.persistent.Compact()
}
