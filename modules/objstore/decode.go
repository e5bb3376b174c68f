package objstore

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joshproject/josh/modules/fsmode"
	"github.com/joshproject/josh/modules/objhash"
)

// DecodeTree parses the bytes produced by Tree.Encode back into a Tree. It
// is the inverse used by a persistent backend to read a tree object off
// disk; nothing in the filtering engine itself needs it; Encode's hash is
// one-directional there.
func DecodeTree(data []byte) (*Tree, error) {
	if !bytes.HasPrefix(data, TreeMagic[:]) {
		return nil, fmt.Errorf("objstore: bad tree magic")
	}
	data = data[len(TreeMagic):]
	var entries []TreeEntry
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("objstore: truncated tree entry")
		}
		mode, err := strconv.ParseUint(string(data[:sp]), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("objstore: invalid tree entry mode: %w", err)
		}
		data = data[sp+1:]
		nul := bytes.IndexByte(data, 0)
		if nul < 0 {
			return nil, fmt.Errorf("objstore: truncated tree entry name")
		}
		name := string(data[:nul])
		data = data[nul+1:]
		if len(data) < objhash.Size {
			return nil, fmt.Errorf("objstore: truncated tree entry oid")
		}
		oid := objhash.FromBytes(data[:objhash.Size])
		data = data[objhash.Size:]
		entries = append(entries, TreeEntry{Name: name, Mode: fsmode.FileMode(mode), Oid: oid})
	}
	return &Tree{Entries: entries}, nil
}

// DecodeCommit parses the bytes produced by Commit.Encode back into a
// Commit.
func DecodeCommit(data []byte) (*Commit, error) {
	if !bytes.HasPrefix(data, CommitMagic[:]) {
		return nil, fmt.Errorf("objstore: bad commit magic")
	}
	rest := string(data[len(CommitMagic):])
	headerPart, message, ok := strings.Cut(rest, "\n\n")
	if !ok {
		headerPart, message = rest, ""
	}

	c := &Commit{}
	c.Message = message
	for _, line := range strings.Split(headerPart, "\n") {
		if line == "" {
			continue
		}
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "tree":
			oid, err := objhash.Parse(val)
			if err != nil {
				return nil, err
			}
			c.TreeID = oid
		case "parent":
			oid, err := objhash.Parse(val)
			if err != nil {
				return nil, err
			}
			c.Parents = append(c.Parents, oid)
		case "author":
			sig, err := parseSignature(val)
			if err != nil {
				return nil, err
			}
			c.Author = sig
		case "committer":
			sig, err := parseSignature(val)
			if err != nil {
				return nil, err
			}
			c.Committer = sig
		default:
			c.ExtraHeaders = append(c.ExtraHeaders, ExtraHeader{K: key, V: val})
		}
	}
	return c, nil
}

// parseSignature reverses Signature.String: "Name <email> unixSeconds +ZZZZ".
func parseSignature(s string) (Signature, error) {
	lt := strings.LastIndex(s, "<")
	gt := strings.LastIndex(s, ">")
	if lt < 0 || gt < lt {
		return Signature{}, fmt.Errorf("objstore: invalid signature %q", s)
	}
	name := strings.TrimSpace(s[:lt])
	email := s[lt+1 : gt]
	tail := strings.TrimSpace(s[gt+1:])
	fields := strings.SplitN(tail, " ", 2)
	if len(fields) != 2 {
		return Signature{}, fmt.Errorf("objstore: invalid signature timestamp %q", s)
	}
	unixSec, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("objstore: invalid signature timestamp %q: %w", s, err)
	}
	loc, err := parseOffset(fields[1])
	if err != nil {
		return Signature{}, err
	}
	return Signature{Name: name, Email: email, When: time.Unix(unixSec, 0).In(loc)}, nil
}

func parseOffset(offset string) (*time.Location, error) {
	t, err := time.Parse("-0700", offset)
	if err != nil {
		return nil, fmt.Errorf("objstore: invalid signature offset %q: %w", offset, err)
	}
	_, secs := t.Zone()
	return time.FixedZone(offset, secs), nil
}
