package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshproject/josh/workspace"
)

func TestParseSkipsBlankAndCommentLines(t *testing.T) {
	entries := workspace.Parse("\n# a comment\n\nlib = :/src/lib\n")
	assert.Equal(t, []workspace.Entry{{Prefix: "lib", Spec: ":/src/lib"}}, entries)
}

func TestParseDefaultsToEmptySpec(t *testing.T) {
	entries := workspace.Parse("docs\n")
	assert.Equal(t, []workspace.Entry{{Prefix: "docs", Spec: ""}}, entries)
}

func TestParseTrimsWhitespace(t *testing.T) {
	entries := workspace.Parse("  lib  =  :/src/lib  \n")
	assert.Equal(t, []workspace.Entry{{Prefix: "lib", Spec: ":/src/lib"}}, entries)
}

func TestParsePreservesOrder(t *testing.T) {
	entries := workspace.Parse("a = :/a\nb = :/b\nc = :/c\n")
	assert.Equal(t, []string{"a", "b", "c"}, []string{
		entries[0].Prefix, entries[1].Prefix, entries[2].Prefix,
	})
}
