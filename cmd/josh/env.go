package main

import (
	"fmt"

	"github.com/joshproject/josh/cache"
	"github.com/joshproject/josh/modules/tracelog"
	"github.com/joshproject/josh/rewriter"
	"github.com/joshproject/josh/store"
)

// openEngine opens the object store at repoDir and the filter cache
// described by cfg, returning a ready-to-use Engine and a close function
// the caller must run once done.
func openEngine(repoDir string) (*rewriter.Engine, func() error, error) {
	objs, err := store.Open(repoDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening object store %s: %w", repoDir, err)
	}

	persistent, err := cache.Open(cfg.CacheDir)
	if err != nil {
		objs.Close()
		return nil, nil, fmt.Errorf("opening filter cache %s: %w", cfg.CacheDir, err)
	}
	mc := cfg.MemCache
	layered, err := cache.NewLayered(persistent, mc.NumCounters, mc.MaxCost, mc.BufferItems)
	if err != nil {
		objs.Close()
		persistent.Close()
		return nil, nil, err
	}

	log := tracelog.New(cfg.Level())
	eng := rewriter.New(objs, layered, log)
	closeFn := func() error {
		if err := layered.Close(); err != nil {
			return err
		}
		return objs.Close()
	}
	return eng, closeFn, nil
}
