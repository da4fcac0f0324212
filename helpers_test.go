package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/errs"
)

func TestRegisterSingletonAndGet(t *testing.T) {
	c := New()
	calls := 0

	err := RegisterSingleton(c, func(r Resolver) (*counter, error) {
		calls++
		return &counter{n: calls}, nil
	})
	require.NoError(t, err)

	first, err := Get[*counter](c)
	require.NoError(t, err)
	second, err := Get[*counter](c)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestRegisterTransient(t *testing.T) {
	c := New()

	require.NoError(t, RegisterTransient(c, func(r Resolver) (*counter, error) {
		return &counter{}, nil
	}))

	first := Must[*counter](c)
	second := Must[*counter](c)
	assert.NotSame(t, first, second)
}

func TestRegisterScoped(t *testing.T) {
	c := New()

	require.NoError(t, RegisterScoped(c, func(r Resolver) (*counter, error) {
		return &counter{}, nil
	}))

	first := Must[*counter](c)
	assert.Same(t, first, Must[*counter](c))

	c.ClearScoped()
	assert.NotSame(t, first, Must[*counter](c))
}

func TestRegisterNilFactoryAutowires(t *testing.T) {
	c := newBasicContainer(t)

	require.NoError(t, RegisterSingleton[*Basic](c, nil))

	b, err := Get[*Basic](c)
	require.NoError(t, err)
	assert.Equal(t, testNow, b.D)
}

func TestRegisterValue(t *testing.T) {
	c := New()

	require.NoError(t, RegisterValue[Filesystem](c, s3FS{}))

	fs, err := Get[Filesystem](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", fs.Name())

	err = RegisterValue[Filesystem](c, localFS{})
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestGetID_TypeMismatch(t *testing.T) {
	c := New()
	require.NoError(t, c.Instance("svc", "a string"))

	_, err := GetID[*Basic](c, "svc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInstance)

	var instanceErr *errs.Error
	require.ErrorAs(t, err, &instanceErr)
	assert.Equal(t, string(Key[*Basic]()), instanceErr.GetContext()["expected_type"])
}

func TestMust_Panics(t *testing.T) {
	c := New()

	assert.Panics(t, func() {
		Must[*Basic](c)
	})
}

func TestExtendTyped(t *testing.T) {
	c := New()
	require.NoError(t, RegisterValue(c, &counter{n: 1}))

	require.NoError(t, Extend(c, func(cnt *counter, r Resolver) (*counter, error) {
		return &counter{n: cnt.n * 10}, nil
	}))

	cnt, err := Get[*counter](c)
	require.NoError(t, err)
	assert.Equal(t, 10, cnt.n)

	err = Extend[*counter](c, nil)
	assert.ErrorIs(t, err, ErrInjection)
}

func TestInvoke(t *testing.T) {
	c := newBasicContainer(t)

	n, err := Invoke[int](c, func(b *Basic) int { return b.I + 1 })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = Invoke[int](c, func(b *Basic) {})
	assert.ErrorIs(t, err, ErrInvalidInstance)

	_, err = Invoke[string](c, func(b *Basic) int { return b.I })
	assert.ErrorIs(t, err, ErrInvalidInstance)
}

func TestMakeAndInjectTyped(t *testing.T) {
	c := newBasicContainer(t)

	b, err := Make[*Basic](c, Named("i", 4))
	require.NoError(t, err)
	assert.Equal(t, 4, b.I)

	b, err = Inject[*Basic](c)
	require.NoError(t, err)
	assert.Equal(t, 1, b.I)

	_, err = Inject[*counter](c)
	assert.ErrorIs(t, err, ErrInjection)
}
