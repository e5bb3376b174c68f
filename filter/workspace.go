package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/rewriter"
	"github.com/joshproject/josh/modules/treeops"
)

// Workspace resolves a workspace.josh file found at WsPath inside a tree
// into a Combine filter (base Subdir(WsPath), one mount per workspace
// entry) and applies that. At the commit level it additionally collects
// the mounts present in a commit's workspace file but in none of its
// parents' files, and splices those newly-added mounts' own history in as
// an extra parent, computed from the first parent only, rather than letting
// them appear with no ancestry. Mounts removed since a parent are not
// tracked.
type Workspace struct {
	WsPath string
}

// combineFilterFromWs reads wsPath+"/workspace.josh" (or "workspace.josh"
// if wsPath is "") out of tree and builds the Combine it describes, with
// Subdir(wsPath) as the base. A missing or unreadable workspace file
// degrades to an empty Combine over that same base, matching the
// specification's "missing workspace file" edge case.
func combineFilterFromWs(ctx context.Context, b objstore.WriteBackend, tree objhash.Oid, wsPath string) (*Combine, error) {
	base := Subdir{Path: wsPath}
	wsFile := "workspace.josh"
	if wsPath != "" {
		wsFile = wsPath + "/workspace.josh"
	}
	oid, ok, err := treeops.GetSubtree(ctx, b, tree, wsFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return buildCombineFilter("", base)
	}
	content, err := b.Blob(ctx, oid)
	if err != nil {
		return buildCombineFilter("", base)
	}
	return buildCombineFilter(string(content), base)
}

func (w Workspace) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	cw, err := combineFilterFromWs(ctx, b, oid, w.WsPath)
	if err != nil {
		cw = &Combine{Base: Subdir{Path: w.WsPath}}
	}
	return cw.ApplyToTree(ctx, b, oid)
}

func (w Workspace) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error) {
	cw, err := combineFilterFromWs(ctx, b, filtered, "")
	if err != nil {
		return objhash.Zero, err
	}
	cw.Base = Subdir{Path: w.WsPath}
	return cw.Unapply(ctx, b, filtered, parent)
}

// mountKey identifies one workspace mount for set-difference purposes: two
// mounts are "the same" only if both prefix and resolved filter spec match.
func mountKey(m Mount) string {
	return m.Prefix + " = " + m.Other.Spec()
}

func (w Workspace) applyToTreeAndParents(ctx context.Context, eng *rewriter.Engine, fullTree objhash.Oid, parents []objhash.Oid) (objhash.Oid, []objhash.Oid, error) {
	cw, err := combineFilterFromWs(ctx, eng.Backend, fullTree, w.WsPath)
	if err != nil {
		cw = &Combine{Base: Subdir{Path: w.WsPath}}
	}

	inThis := make(map[string]bool, len(cw.Mounts))
	for _, m := range cw.Mounts {
		inThis[mountKey(m)] = true
	}

	var filteredParentIDs []objhash.Oid
	for _, p := range parents {
		fp, err := eng.ApplyFilterCached(ctx, p, w)
		if err != nil {
			return objhash.Zero, nil, err
		}
		if !fp.IsZero() {
			filteredParentIDs = append(filteredParentIDs, fp)
		}

		pc, err := eng.Backend.Commit(ctx, p)
		if err != nil {
			return objhash.Zero, nil, err
		}
		pcw, err := combineFilterFromWs(ctx, eng.Backend, pc.TreeID, w.WsPath)
		if err != nil {
			pcw = &Combine{Base: Subdir{Path: w.WsPath}}
		}
		for _, m := range pcw.Mounts {
			delete(inThis, mountKey(m))
		}
	}

	var added strings.Builder
	for k := range inThis {
		added.WriteString(k)
		added.WriteByte('\n')
	}
	addedFilter, err := buildCombineFilter(added.String(), Empty{})
	if err != nil {
		return objhash.Zero, nil, err
	}

	for _, p := range parents {
		pc, err := eng.Backend.Commit(ctx, p)
		if err != nil {
			return objhash.Zero, nil, err
		}
		fp, err := applyToCommitVia(ctx, eng, addedFilter, p, pc)
		if err != nil {
			return objhash.Zero, nil, err
		}
		if !fp.IsZero() {
			filteredParentIDs = append(filteredParentIDs, fp)
		}
		break
	}

	filteredTree, err := cw.ApplyToTree(ctx, eng.Backend, fullTree)
	if err != nil {
		return objhash.Zero, nil, err
	}
	return filteredTree, filteredParentIDs, nil
}

func (w Workspace) ApplyToCommit(ctx context.Context, eng *rewriter.Engine, _ objhash.Oid, commit *objstore.Commit, _ rewriter.Filter) (objhash.Oid, error) {
	filteredTree, filteredParentIDs, err := w.applyToTreeAndParents(ctx, eng, commit.TreeID, commit.Parents)
	if err != nil {
		return objhash.Zero, err
	}
	return eng.CreateFilteredCommit(ctx, commit, filteredParentIDs, filteredTree)
}

func (w Workspace) Spec() string { return fmt.Sprintf(":workspace=%s", w.WsPath) }

func (Workspace) Prefixes() map[string]string { return nil }
