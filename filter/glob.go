package filter

import (
	"context"
	"fmt"

	"github.com/joshproject/josh/modules/globmatch"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
)

// Glob keeps (or, inverted, drops) every blob whose path matches a glob
// pattern, recursing through every directory regardless of match. Each
// instance owns its own memo table since the same tree can recur at many
// roots across one filtering pass.
type Glob struct {
	Pattern *globmatch.Pattern
	Invert  bool
	memo    *treeops.StripedMemo
}

// NewGlob compiles pattern and returns a ready-to-use Glob filter.
func NewGlob(pattern string, invert bool) *Glob {
	return &Glob{
		Pattern: globmatch.Compile(pattern, globmatch.Default()),
		Invert:  invert,
		memo:    treeops.NewStripedMemo(),
	}
}

func (g *Glob) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	return treeops.StripedTree(ctx, b, g.memo, "", oid, g.Pattern, g.Invert, false)
}

func (g *Glob) Unapply(ctx context.Context, b objstore.WriteBackend, filtered, parent objhash.Oid) (objhash.Oid, error) {
	stripped, err := treeops.StripedTree(ctx, b, g.memo, "", filtered, g.Pattern, g.Invert, false)
	if err != nil {
		return objhash.Zero, err
	}
	return treeops.MergedTree(ctx, b, parent, stripped)
}

func (g *Glob) Spec() string {
	if g.Invert {
		return fmt.Sprintf(":~glob=%s", g.Pattern.String())
	}
	return fmt.Sprintf(":glob=%s", g.Pattern.String())
}

func (*Glob) Prefixes() map[string]string { return nil }

// Dirs keeps every directory's shape (dropping every blob except
// workspace.josh files) and marks
// each surviving directory with a JOSH_ORIG_PATH_<ns> blob recording where
// it originally lived — used to locate workspace.josh files after other
// filtering has moved things around.
type Dirs struct {
	memo *treeops.StripedMemo
}

// NewDirs returns a ready-to-use Dirs filter.
func NewDirs() *Dirs {
	return &Dirs{memo: treeops.NewStripedMemo()}
}

var dirsPattern = globmatch.Compile("**/workspace.josh", globmatch.Default())

func (d *Dirs) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	return treeops.StripedTree(ctx, b, d.memo, "", oid, dirsPattern, false, true)
}

func (*Dirs) Unapply(context.Context, objstore.WriteBackend, objhash.Oid, objhash.Oid) (objhash.Oid, error) {
	return objhash.Zero, &NotReversibleError{Spec: ":DIRS"}
}

func (*Dirs) Spec() string { return ":DIRS" }

func (*Dirs) Prefixes() map[string]string { return nil }
