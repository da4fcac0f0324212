package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionPath_EnterExit(t *testing.T) {
	var p resolutionPath

	require.NoError(t, p.enter("a", frameEntry))
	require.NoError(t, p.enter("a", frameInject))
	require.NoError(t, p.enter("b", frameEntry))
	assert.Equal(t, 3, p.depth())

	err := p.enter("a", frameEntry)
	require.ErrorIs(t, err, ErrCircularDependency)
	assert.ErrorContains(t, err, "a -> b -> a")

	p.exit()
	p.exit()
	p.exit()
	assert.Equal(t, 0, p.depth())

	require.NoError(t, p.enter("a", frameEntry))
}

func TestResolutionPath_Chain(t *testing.T) {
	var p resolutionPath

	require.NoError(t, p.enter("a", frameEntry))
	require.NoError(t, p.enter("a", frameInject))
	require.NoError(t, p.enter("b", frameInject))
	require.NoError(t, p.enter("c", frameEntry))

	assert.Equal(t, []ID{"a", "b", "c", "b"}, p.chain("b"))
}

func TestResolutionPath_ChainEndingWithNext(t *testing.T) {
	var p resolutionPath

	require.NoError(t, p.enter("a", frameInject))
	require.NoError(t, p.enter("b", frameEntry))
	require.NoError(t, p.enter("b", frameInject))
	require.NoError(t, p.enter("a", frameEntry))

	assert.Equal(t, []ID{"a", "b", "a"}, p.chain("a"))

	err := p.enter("a", frameInject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a -> b -> a")
	assert.NotContains(t, err.Error(), "a -> a")
}
