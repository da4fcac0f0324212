package crate

import (
	"fmt"
	"sync"
)

// Lazy wraps a dependency that is resolved on first access.
// A Lazy handed to a constructor breaks a construction-time cycle: the
// dependency is only looked up once the constructed value first needs it.
//
// Lazy resolves through the Container, so Get must not be called from inside
// a factory or constructor of the same container.
type Lazy[T any] struct {
	container *Container
	id        ID
	once      sync.Once
	value     T
	err       error
	resolved  bool
}

// NewLazy creates a lazy handle for Key[T]().
func NewLazy[T any](c *Container) *Lazy[T] {
	return NewLazyID[T](c, Key[T]())
}

// NewLazyID creates a lazy handle for an explicit id.
func NewLazyID[T any](c *Container, id ID) *Lazy[T] {
	return &Lazy[T]{
		container: c,
		id:        id,
	}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = GetID[T](l.container, l.id)
		l.resolved = l.err == nil
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.id, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved
}

// ID returns the id of the dependency.
func (l *Lazy[T]) ID() ID {
	return l.id
}

// Provider resolves its id on every call, so a transient entry yields a
// fresh instance each time.
type Provider[T any] struct {
	container *Container
	id        ID
}

// NewProvider creates a provider for Key[T]().
func NewProvider[T any](c *Container) *Provider[T] {
	return &Provider[T]{
		container: c,
		id:        Key[T](),
	}
}

// Provide resolves and returns an instance of the dependency.
func (p *Provider[T]) Provide() (T, error) {
	return GetID[T](p.container, p.id)
}

// ID returns the id of the dependency.
func (p *Provider[T]) ID() ID {
	return p.id
}
