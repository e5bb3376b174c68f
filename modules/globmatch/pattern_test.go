package globmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshproject/josh/modules/globmatch"
)

func TestMatchLiteralSegment(t *testing.T) {
	p := globmatch.Compile("src/*.go", globmatch.Default())
	assert.True(t, p.Match("src/main.go"))
	assert.False(t, p.Match("src/pkg/main.go"))
	assert.False(t, p.Match("main.go"))
}

func TestMatchDoubleStar(t *testing.T) {
	p := globmatch.Compile("**/workspace.josh", globmatch.Default())
	assert.True(t, p.Match("workspace.josh"))
	assert.True(t, p.Match("a/b/workspace.josh"))
	assert.False(t, p.Match("a/b/workspace.json"))
}

func TestLiteralLeadingDotRequiresExplicitDot(t *testing.T) {
	p := globmatch.Compile("*", globmatch.Default())
	assert.False(t, p.Match(".hidden"))
	assert.True(t, p.Match("visible"))
}
