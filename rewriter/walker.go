package rewriter

import (
	"context"
	"io"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
)

// commitNode pairs a decoded commit with its own oid, since objstore.Commit
// does not carry its own identity.
type commitNode struct {
	oid objhash.Oid
	c   *objstore.Commit
}

// topoWalker produces commits reachable from a tip in "git log --topo-order"
// order (a commit only after all of its children have been visited), using
// the same explorer-heap / in-degree algorithm the teacher stack's own
// topological commit walker uses. ancestryOldestFirst then reverses this
// into the order the filter engine actually needs: oldest ancestor first,
// so that by the time a commit is processed every one of its parents has
// already been filtered and cached.
type topoWalker struct {
	backend  objstore.Backend
	explorer *binaryheap.Heap
	visit    []*commitNode
	inCounts map[objhash.Oid]int
	seen     map[objhash.Oid]bool
}

func newTopoWalker(backend objstore.Backend, tip *commitNode) *topoWalker {
	w := &topoWalker{
		backend: backend,
		explorer: binaryheap.NewWith(func(a, b any) int {
			an, bn := a.(*commitNode), b.(*commitNode)
			if an.c.Committer.When.After(bn.c.Committer.When) {
				return -1
			}
			if an.c.Committer.When.Before(bn.c.Committer.When) {
				return 1
			}
			return 0
		}),
		inCounts: make(map[objhash.Oid]int),
		seen:     make(map[objhash.Oid]bool),
	}
	w.explorer.Push(tip)
	w.visit = append(w.visit, tip)
	return w
}

func (w *topoWalker) loadParents(ctx context.Context, n *commitNode) ([]*commitNode, error) {
	out := make([]*commitNode, 0, len(n.c.Parents))
	for _, oid := range n.c.Parents {
		pc, err := w.backend.Commit(ctx, oid)
		if err != nil {
			return nil, err
		}
		out = append(out, &commitNode{oid: oid, c: pc})
	}
	return out, nil
}

func (w *topoWalker) next(ctx context.Context) (*commitNode, error) {
	var next *commitNode
	for {
		if len(w.visit) == 0 {
			return nil, io.EOF
		}
		next = w.visit[len(w.visit)-1]
		w.visit = w.visit[:len(w.visit)-1]
		if w.inCounts[next.oid] == 0 {
			break
		}
	}

	parents, err := w.loadParents(ctx, next)
	if err != nil {
		return nil, err
	}

	for {
		peeked, ok := w.explorer.Peek()
		if !ok {
			break
		}
		toExplore := peeked.(*commitNode)
		if toExplore.oid != next.oid && w.explorer.Size() == 1 {
			break
		}
		popped, _ := w.explorer.Pop()
		te := popped.(*commitNode)
		teParents, err := w.loadParents(ctx, te)
		if err != nil {
			return nil, err
		}
		for _, pn := range teParents {
			if w.seen[pn.oid] {
				continue
			}
			w.inCounts[pn.oid]++
			if w.inCounts[pn.oid] == 1 {
				w.explorer.Push(pn)
			}
		}
	}

	for _, pn := range parents {
		if w.seen[pn.oid] {
			continue
		}
		w.inCounts[pn.oid]--
		if w.inCounts[pn.oid] == 0 {
			w.visit = append(w.visit, pn)
		}
	}
	delete(w.inCounts, next.oid)

	return next, nil
}

// ancestryOldestFirst returns tip and all of its reachable ancestors,
// oldest first, each visited exactly once.
func ancestryOldestFirst(ctx context.Context, backend objstore.Backend, tip objhash.Oid) ([]*commitNode, error) {
	c, err := backend.Commit(ctx, tip)
	if err != nil {
		return nil, err
	}
	w := newTopoWalker(backend, &commitNode{oid: tip, c: c})
	var childrenFirst []*commitNode
	for {
		n, err := w.next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		childrenFirst = append(childrenFirst, n)
	}
	out := make([]*commitNode, len(childrenFirst))
	for i, n := range childrenFirst {
		out[len(out)-1-i] = n
	}
	return out, nil
}
