// Package globmatch implements path-glob matching for the Glob/Dirs filter
// combinators and the workspace-file "**/workspace.josh" lookup. Patterns
// use the familiar shell-glob alphabet (`*`, `?`, `[...]`) per path segment,
// plus `**` to match zero or more whole segments, mirroring the match
// semantics the teacher stack's own wildmatch package documents.
package globmatch

import (
	"path"
	"strings"
)

// Options configures how a Pattern is matched against a path.
type Options struct {
	// CaseSensitive, when false, folds both pattern and path to lower
	// case before matching.
	CaseSensitive bool
	// LiteralSeparator records that '*' (a single, non-double star) never
	// crosses a '/' boundary. Match does not read it: matching is always
	// per segment, so '*' never crosses '/' whether or not it is set.
	LiteralSeparator bool
	// LiteralLeadingDot requires a leading '.' in a path segment to be
	// matched explicitly by a literal '.' in the pattern, never by '*'
	// or '?'.
	LiteralLeadingDot bool
}

// Default returns the match options the engine uses everywhere: case
// sensitive, literal separators, literal leading dots — the same
// combination the original filter engine hard-codes for every Glob/Dirs
// application.
func Default() Options {
	return Options{CaseSensitive: true, LiteralSeparator: true, LiteralLeadingDot: true}
}

// Pattern is a compiled glob pattern over "/"-separated paths.
type Pattern struct {
	raw  string
	segs []string
	opts Options
}

// Compile parses p into a Pattern using the given options. It never
// fails: a segment that path.Match rejects as malformed matches no path
// segment. The spec parser does not check glob syntax either, so such a
// pattern reaches Match unchanged.
func Compile(p string, opts Options) *Pattern {
	norm := p
	if !opts.CaseSensitive {
		norm = strings.ToLower(norm)
	}
	return &Pattern{raw: p, segs: strings.Split(norm, "/"), opts: opts}
}

// String returns the original, uncompiled pattern text.
func (p *Pattern) String() string {
	return p.raw
}

// Match reports whether pathStr matches the pattern in its entirety.
func (p *Pattern) Match(pathStr string) bool {
	norm := pathStr
	if !p.opts.CaseSensitive {
		norm = strings.ToLower(norm)
	}
	target := strings.Split(norm, "/")
	return matchSegments(p.segs, target, p.opts)
}

// matchSegments recursively matches a pattern segment list against a path
// segment list. "**" matches zero or more path segments; any other pattern
// segment matches exactly one path segment via segmentMatch.
func matchSegments(pat, target []string, opts Options) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			// Collapse consecutive ** (a no-op) and try every split point.
			rest := pat[1:]
			for len(rest) > 0 && rest[0] == "**" {
				rest = rest[1:]
			}
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(target); i++ {
				if matchSegments(rest, target[i:], opts) {
					return true
				}
			}
			return false
		}
		if len(target) == 0 {
			return false
		}
		if !segmentMatch(pat[0], target[0], opts) {
			return false
		}
		pat = pat[1:]
		target = target[1:]
	}
	return len(target) == 0
}

// segmentMatch matches one non-"**" pattern segment against one path
// segment, honoring LiteralLeadingDot.
func segmentMatch(pat, seg string, opts Options) bool {
	if opts.LiteralLeadingDot && strings.HasPrefix(seg, ".") && !strings.HasPrefix(pat, ".") {
		return false
	}
	ok, err := path.Match(pat, seg)
	return err == nil && ok
}
