package objhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfIsDeterministic(t *testing.T) {
	a := Of([]byte("hello"))
	b := Of([]byte("hello"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Of([]byte("world")))
}

func TestParseRoundTrip(t *testing.T) {
	o := Of([]byte("round-trip"))
	parsed, err := Parse(o.String())
	require.NoError(t, err)
	assert.Equal(t, o, parsed)
}

func TestZeroIsZero(t *testing.T) {
	assert.True(t, Zero.IsZero())
	assert.False(t, Of([]byte("x")).IsZero())
}

func TestParseRejectsBadLength(t *testing.T) {
	_, err := Parse("deadbeef")
	assert.Error(t, err)
}
