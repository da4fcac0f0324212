package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestRegisterAll(t *testing.T) {
	c := New()

	err := RegisterAll(c,
		Entry("db", stringFactory("postgres"), Singleton),
		Entry("cache", stringFactory("redis"), Scoped),
		Value("name", "app"),
	)
	require.NoError(t, err)

	assert.Equal(t, []ID{"db", "cache", "name"}, c.Entries())

	v, err := c.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "app", v)

	info, ok := c.Inspect("cache")
	require.True(t, ok)
	assert.Equal(t, Scoped, info.Lifetime)
}

func TestRegisterAll_CollectsErrors(t *testing.T) {
	c := New()
	require.NoError(t, c.Instance("db", "existing"))

	err := RegisterAll(c,
		Entry("db", stringFactory("postgres"), Singleton),
		Entry("", stringFactory("x"), Transient),
		Entry("cache", stringFactory("redis"), Singleton),
	)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	// Valid registrations in the batch still apply
	assert.True(t, c.Has("cache"))
}
