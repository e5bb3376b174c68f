// Package objstore defines the in-memory object model the filter engine
// operates on (trees, commits, blobs) and the narrow Backend/WriteBackend
// interfaces a real content-addressed store implements. Nothing in this
// package talks to disk or the network; that is the out-of-scope
// collaborator named by the specification.
package objstore

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
)

// TreeMagic prefixes the canonical encoding of a Tree before hashing, so a
// tree's oid can never collide with a blob or commit hashed the same way.
var TreeMagic = [4]byte{'J', 'T', 0x00, 0x01}

// ErrInvalidName is returned when a tree entry name is not valid UTF-8, or
// contains a path separator or NUL byte.
var ErrInvalidName = errors.New("objstore: invalid entry name")

// TreeEntry is one named child of a Tree: either a blob or a subtree.
type TreeEntry struct {
	Name string
	Mode fsmode.FileMode
	Oid  objhash.Oid
}

// Kind reports whether this entry names a blob or a subtree.
func (e TreeEntry) Kind() fsmode.Kind {
	return fsmode.KindOf(e.Mode)
}

// Tree is an ordered mapping of name to (mode, oid, kind). Entries are kept
// sorted in git "subtree order" (see subtreeName below) so that two trees
// with identical entries always encode identically and therefore hash to
// the same Oid.
type Tree struct {
	Entries []TreeEntry
}

// subtreeOrder sorts entries the way git sorts tree objects: as if subtree
// names were suffixed with "/", so that "foo" (blob) sorts before "foo.txt",
// while a directory "foo" sorts after "foo.txt".
type subtreeOrder []TreeEntry

func (s subtreeOrder) Len() int      { return len(s) }
func (s subtreeOrder) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s subtreeOrder) Less(i, j int) bool {
	return subtreeName(s[i]) < subtreeName(s[j])
}

func subtreeName(e TreeEntry) string {
	if e.Kind() == fsmode.Tree {
		return e.Name + "/"
	}
	return e.Name + "\x00"
}

// validateName rejects entry names that cannot round-trip through the
// canonical encoding: empty names, names containing NUL or '/', and
// non-UTF-8 names.
func validateName(name string) error {
	if name == "" || !utf8.ValidString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if r == 0 || r == '/' {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// NewTree builds a Tree from a set of entries, sorting them into canonical
// order. It validates each entry name.
func NewTree(entries []TreeEntry) (*Tree, error) {
	out := make([]TreeEntry, len(entries))
	copy(out, entries)
	for _, e := range out {
		if err := validateName(e.Name); err != nil {
			return nil, err
		}
	}
	sort.Sort(subtreeOrder(out))
	return &Tree{Entries: out}, nil
}

// Entry returns the entry named name, if present.
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	if t == nil {
		return TreeEntry{}, false
	}
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// Without returns a copy of t's entries with name removed (a no-op copy if
// name is absent).
func (t *Tree) Without(name string) []TreeEntry {
	out := make([]TreeEntry, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return out
}

// Encode writes the canonical byte representation of t used to derive its
// Oid: a magic prefix followed by "<mode> <name>\x00<oid bytes>" per entry,
// in subtree order.
func (t *Tree) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(TreeMagic[:])
	for _, e := range t.Entries {
		fmt.Fprintf(&buf, "%o %s", uint32(e.Mode), e.Name)
		buf.WriteByte(0)
		buf.Write(e.Oid[:])
	}
	return buf.Bytes()
}

// Hash computes the content-address oid of t.
func (t *Tree) Hash() objhash.Oid {
	return objhash.Of(t.Encode())
}

// emptyTreeOid is resolved once and reused as the well-known empty-tree
// identity; EmptyTree().Hash() always equals this value.
var emptyTreeOid = (&Tree{}).Hash()

// EmptyTreeOid returns the canonical, fixed oid of the empty tree.
func EmptyTreeOid() objhash.Oid {
	return emptyTreeOid
}

// EmptyTree returns a fresh empty Tree value.
func EmptyTree() *Tree {
	return &Tree{}
}
