package objstore

import (
	"bytes"
	"fmt"
	"time"

	"github.com/joshproject/josh/modules/objhash"
)

// CommitMagic prefixes the canonical encoding of a Commit before hashing.
var CommitMagic = [4]byte{'J', 'C', 0x00, 0x01}

// Signature is an author/committer identity and timestamp, preserved
// verbatim when a commit is rewritten.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), s.When.Format("-0700"))
}

// ExtraHeader is an opaque key/value commit header (e.g. "gpgsig",
// "mergetag") preserved byte-for-byte across a rewrite.
type ExtraHeader struct {
	K string
	V string
}

// Commit carries the metadata the engine must preserve verbatim when
// rewriting history, plus the tree and parent links it rewrites.
type Commit struct {
	TreeID       objhash.Oid
	Parents      []objhash.Oid
	Author       Signature
	Committer    Signature
	ExtraHeaders []ExtraHeader
	Message      string
}

// Clone returns a deep copy of c, safe to mutate (e.g. to swap in a new
// TreeID and Parents before handing to a commit-builder) without aliasing
// the original's slices.
func (c *Commit) Clone() *Commit {
	out := *c
	out.Parents = append([]objhash.Oid(nil), c.Parents...)
	out.ExtraHeaders = append([]ExtraHeader(nil), c.ExtraHeaders...)
	return &out
}

// Encode writes the canonical byte representation of c used to derive its
// oid when a new commit is synthesized by the commit-builder.
func (c *Commit) Encode() []byte {
	var buf bytes.Buffer
	buf.Write(CommitMagic[:])
	fmt.Fprintf(&buf, "tree %s\n", c.TreeID.String())
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p.String())
	}
	fmt.Fprintf(&buf, "author %s\ncommitter %s\n", c.Author.String(), c.Committer.String())
	for _, h := range c.ExtraHeaders {
		fmt.Fprintf(&buf, "%s %s\n", h.K, h.V)
	}
	fmt.Fprintf(&buf, "\n%s", c.Message)
	return buf.Bytes()
}

// Hash computes the content-address oid of c's canonical encoding.
func (c *Commit) Hash() objhash.Oid {
	return objhash.Of(c.Encode())
}
