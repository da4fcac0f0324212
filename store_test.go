package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStore_SetAndGet(t *testing.T) {
	s := newEntryStore()

	_, err := s.get("svc")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = s.set("svc", nil, stringFactory("v"), Singleton)
	require.NoError(t, err)

	e, err := s.get("svc")
	require.NoError(t, err)
	assert.Equal(t, Singleton, e.lifetime)
	assert.True(t, s.has("svc"))

	_, err = s.set("svc", nil, stringFactory("v"), Singleton)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestEntryStore_SetAbsorbsBareEntry(t *testing.T) {
	s := newEntryStore()

	bare := s.ensure("svc", nil)
	bare.extenders = append(bare.extenders, wrapExtender("e1"))

	e, err := s.set("svc", nil, stringFactory("r"), Transient)
	require.NoError(t, err)
	assert.Same(t, bare, e)
	assert.Len(t, e.extenders, 1)
	assert.Equal(t, []ID{"svc"}, s.ids())
}

func TestEntryStore_Remove(t *testing.T) {
	s := newEntryStore()
	_, err := s.set("a", nil, stringFactory("a"), Scoped)
	require.NoError(t, err)
	_, err = s.set("b", nil, stringFactory("b"), Transient)
	require.NoError(t, err)

	assert.True(t, s.remove("a"))
	assert.False(t, s.remove("a"))
	assert.Equal(t, []ID{"b"}, s.ids())
	assert.NotContains(t, s.scoped, ID("a"))
}

func TestEntryStore_ClearScoped(t *testing.T) {
	s := newEntryStore()
	scoped, err := s.set("scoped", nil, stringFactory("s"), Scoped)
	require.NoError(t, err)
	single, err := s.set("single", nil, stringFactory("x"), Singleton)
	require.NoError(t, err)
	_, err = s.set("idle", nil, stringFactory("i"), Scoped)
	require.NoError(t, err)

	_, err = scoped.getInstance(nil)
	require.NoError(t, err)
	_, err = single.getInstance(nil)
	require.NoError(t, err)

	// Only entries holding an instance are counted
	assert.Equal(t, 1, s.clearScoped())
	assert.False(t, scoped.cached())
	assert.True(t, single.cached())
	assert.Empty(t, s.scoped)

	_, err = scoped.getInstance(nil)
	require.NoError(t, err)
	s.track(scoped)
	s.track(single)

	assert.Equal(t, map[ID]struct{}{"scoped": {}}, s.scoped)
	assert.Equal(t, 1, s.clearScoped())
}
