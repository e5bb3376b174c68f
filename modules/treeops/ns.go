package treeops

import "strings"

// ToNamespace reversibly encodes a path so it can appear inside a single
// tree-entry name: path separators and the punctuation reserved by the
// InfoFile value grammar are replaced by bracketed tokens.
func ToNamespace(path string) string {
	r := strings.NewReplacer(
		"\\", "<backslash>",
		"/", "<slash>",
		":", "<colon>",
		",", "<comma>",
	)
	return r.Replace(path)
}

// FromNamespace reverses ToNamespace.
func FromNamespace(ns string) string {
	r := strings.NewReplacer(
		"<slash>", "/",
		"<colon>", ":",
		"<comma>", ",",
		"<backslash>", "\\",
	)
	return r.Replace(ns)
}
