// Package objhash defines the content-address type used throughout the
// filter engine: a fixed-width hash identifying a tree, blob, or commit in
// the object store.
package objhash

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"hash"
	"sort"

	"github.com/zeebo/blake3"
)

const (
	// Size is the digest length in bytes of an Oid (BLAKE3-256).
	Size = 32
	// HexSize is the length of an Oid's hexadecimal string form.
	HexSize = Size * 2
)

// ErrInvalidOid is returned when a string does not decode to a well-formed Oid.
var ErrInvalidOid = errors.New("objhash: not a valid object id")

// Oid is a content hash identifying a tree, blob, or commit.
//
// Zero is distinct from the empty-tree oid: Zero means "absent / filtered
// away", while the empty-tree oid names a real, existing empty tree object.
type Oid [Size]byte

// Zero is the sentinel oid denoting "absent".
var Zero Oid

// IsZero reports whether o is the sentinel Zero oid.
func (o Oid) IsZero() bool {
	return o == Zero
}

func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

func (o Oid) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Oid) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*o = Zero
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o Oid) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Oid) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// New decodes a hex string into an Oid, ignoring malformed input (returning
// the zero value). Use Parse when errors must be observed.
func New(s string) Oid {
	o, _ := Parse(s)
	return o
}

// Parse decodes a hex string into an Oid, validating its length and digits.
func Parse(s string) (Oid, error) {
	if len(s) != HexSize {
		return Zero, ErrInvalidOid
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, ErrInvalidOid
	}
	var o Oid
	copy(o[:], b)
	return o, nil
}

// FromBytes copies a raw digest into an Oid. Panics if b is not Size bytes.
func FromBytes(b []byte) Oid {
	if len(b) != Size {
		panic("objhash: raw digest must be 32 bytes")
	}
	var o Oid
	copy(o[:], b)
	return o
}

// Sort sorts a slice of Oid in increasing byte order.
func Sort(a []Oid) {
	sort.Sort(oidSlice(a))
}

type oidSlice []Oid

func (p oidSlice) Len() int           { return len(p) }
func (p oidSlice) Less(i, j int) bool { return bytes.Compare(p[i][:], p[j][:]) < 0 }
func (p oidSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// Hasher wraps the BLAKE3 hash used to derive object ids from their
// canonical encodings.
type Hasher struct {
	hash.Hash
}

// NewHasher returns a Hasher ready to accept a canonical object encoding.
func NewHasher() Hasher {
	return Hasher{Hash: blake3.New()}
}

// Sum finalizes the hash and returns the resulting Oid.
func (h Hasher) Sum() Oid {
	var o Oid
	copy(o[:], h.Hash.Sum(nil))
	return o
}

// Of is a convenience for hashing a single byte slice to an Oid.
func Of(b []byte) Oid {
	h := NewHasher()
	_, _ = h.Write(b)
	return h.Sum()
}
