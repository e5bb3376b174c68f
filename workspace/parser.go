// Package workspace parses workspace.josh files: the per-directory manifest
// that tells the workspace filter (component H) which other subtrees to
// mount where. It knows nothing about filters or trees; it only turns text
// into an ordered list of (prefix, spec) pairs.
package workspace

import "strings"

// Entry is one line of a workspace file: mount Prefix using the filter
// named by Spec. An empty Spec means "use the default :/Prefix filter" —
// callers resolve that default themselves, since workspace has no notion
// of filter specs beyond their raw text.
type Entry struct {
	Prefix string
	Spec   string
}

// Parse reads a workspace.josh file's content into its ordered entries.
// Blank lines and lines starting with '#' are skipped. Each remaining line
// is either "prefix" or "prefix = spec"; surrounding whitespace around
// prefix, '=' and spec is ignored.
func Parse(content string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prefix, spec, hasSpec := strings.Cut(line, "=")
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		e := Entry{Prefix: prefix}
		if hasSpec {
			e.Spec = strings.TrimSpace(spec)
		}
		entries = append(entries, e)
	}
	return entries
}
