package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_Get(t *testing.T) {
	c := New()
	calls := 0
	require.NoError(t, RegisterSingleton(c, func(r Resolver) (*counter, error) {
		calls++
		return &counter{n: calls}, nil
	}))

	lazy := NewLazy[*counter](c)
	assert.False(t, lazy.IsResolved())
	assert.Equal(t, 0, calls)
	assert.Equal(t, Key[*counter](), lazy.ID())

	v, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v.n)
	assert.True(t, lazy.IsResolved())

	assert.Same(t, v, lazy.MustGet())
	assert.Equal(t, 1, calls)
}

func TestLazy_BreaksConstructionCycle(t *testing.T) {
	type server struct{ handler *Lazy[*counter] }

	c := New()
	require.NoError(t, c.Singleton(Key[*server](), func(r Resolver) (any, error) {
		return &server{handler: NewLazy[*counter](c)}, nil
	}))
	require.NoError(t, RegisterValue(c, &counter{n: 7}))

	srv, err := Get[*server](c)
	require.NoError(t, err)
	assert.Equal(t, 7, srv.handler.MustGet().n)
}

func TestLazy_Error(t *testing.T) {
	c := New()

	lazy := NewLazyID[*counter](c, "missing")

	_, err := lazy.Get()
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.False(t, lazy.IsResolved())

	assert.Panics(t, func() { lazy.MustGet() })
}

func TestProvider(t *testing.T) {
	c := New()
	require.NoError(t, RegisterTransient(c, func(r Resolver) (*counter, error) {
		return &counter{}, nil
	}))

	p := NewProvider[*counter](c)
	assert.Equal(t, Key[*counter](), p.ID())

	first, err := p.Provide()
	require.NoError(t, err)
	second, err := p.Provide()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
