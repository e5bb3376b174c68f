package filter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
	"github.com/joshproject/josh/modules/objstore"
	"github.com/joshproject/josh/modules/treeops"
)

// InfoFile writes a ".joshinfo" blob at Values["prefix"] listing every other
// key/value pair, one "k: v" line per entry in key order. A value of
// "#tree" is resolved to the hex oid of the subtree at the prefix path
// instead of being written literally — a way to stamp the original tree id
// into the filtered history. It has no inverse: the info file is derived
// data, not something to subtract back out.
type InfoFile struct {
	Values map[string]string
}

func (f InfoFile) ApplyToTree(ctx context.Context, b objstore.WriteBackend, oid objhash.Oid) (objhash.Oid, error) {
	keys := make([]string, 0, len(f.Values))
	for k := range f.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	prefix := f.Values["prefix"]
	var sb strings.Builder
	for _, k := range keys {
		if k == "prefix" {
			continue
		}
		v := strings.NewReplacer("<colon>", ":", "<comma>", ",").Replace(f.Values[k])
		if v == "#tree" {
			sub, ok, err := treeops.GetSubtree(ctx, b, oid, prefix)
			if err != nil {
				return objhash.Zero, err
			}
			if !ok {
				sub = objhash.Zero
			}
			v = sub.String()
		}
		fmt.Fprintf(&sb, "%s: %s\n", k, v)
	}

	blob, err := b.WriteBlob(ctx, []byte(sb.String()))
	if err != nil {
		return objhash.Zero, err
	}
	path := prefix + "/.joshinfo"
	if prefix == "" {
		path = ".joshinfo"
	}
	return treeops.ReplaceSubtree(ctx, b, oid, path, blob, fsmode.Blob)
}

func (f InfoFile) Unapply(context.Context, objstore.WriteBackend, objhash.Oid, objhash.Oid) (objhash.Oid, error) {
	return objhash.Zero, &NotReversibleError{Spec: f.Spec()}
}

func (f InfoFile) Spec() string {
	keys := make([]string, 0, len(f.Values))
	for k := range f.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, f.Values[k]))
	}
	return ":INFO=" + strings.Join(parts, ",")
}

func (InfoFile) Prefixes() map[string]string { return nil }
