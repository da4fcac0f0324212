package crate

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// Get resolves the entry registered under Key[T]() with type safety.
func Get[T any](r Resolver) (T, error) {
	return GetID[T](r, Key[T]())
}

// GetID resolves the entry registered under id and asserts it to T.
func GetID[T any](r Resolver, id ID) (T, error) {
	instance, err := r.Get(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertType[T](id, instance)
}

// Make resolves or constructs T, see Container.Make.
func Make[T any](r Resolver, args ...Arg) (T, error) {
	id := Key[T]()

	instance, err := r.Make(id, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertType[T](id, instance)
}

// Inject constructs a fresh T, see Container.Inject.
func Inject[T any](r Resolver, args ...Arg) (T, error) {
	id := Key[T]()

	instance, err := r.Inject(id, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertType[T](id, instance)
}

// Must resolves or panics - use only during startup.
func Must[T any](r Resolver) T {
	instance, err := Get[T](r)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", Key[T](), err))
	}
	return instance
}

// Invoke calls fn and returns its first result as T.
func Invoke[T any](r Resolver, fn any, args ...Arg) (T, error) {
	var zero T

	results, err := r.Call(fn, args...)
	if err != nil {
		return zero, err
	}

	if len(results) == 0 {
		return zero, errs.NewError(CodeInvalidInstance, fmt.Sprintf("callable %T returned no value", fn), nil)
	}

	return assertType[T]("", results[0])
}

// RegisterTransient registers a transient factory under Key[T](). A nil factory autowires T.
func RegisterTransient[T any](c *Container, factory func(Resolver) (T, error)) error {
	return register(c, Transient, factory)
}

// RegisterSingleton registers a singleton factory under Key[T](). A nil factory autowires T.
func RegisterSingleton[T any](c *Container, factory func(Resolver) (T, error)) error {
	return register(c, Singleton, factory)
}

// RegisterScoped registers a scoped factory under Key[T](). A nil factory autowires T.
func RegisterScoped[T any](c *Container, factory func(Resolver) (T, error)) error {
	return register(c, Scoped, factory)
}

// RegisterValue registers a pre-built value under Key[T]().
func RegisterValue[T any](c *Container, instance T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.instance(Key[T](), reflect.TypeFor[T](), instance)
}

// Extend attaches a typed extender to Key[T]().
//
// Usage:
//
//	crate.Extend(c, func(l Logger, r crate.Resolver) (Logger, error) {
//	    return &timestampLogger{next: l}, nil
//	})
func Extend[T any](c *Container, fn func(instance T, r Resolver) (T, error)) error {
	if fn == nil {
		return errs.NewError(CodeInjection, fmt.Sprintf("extender for %s cannot be nil", Key[T]()), nil)
	}

	id := Key[T]()
	ext := func(instance any, r Resolver) (any, error) {
		typed, err := assertType[T](id, instance)
		if err != nil {
			return nil, err
		}
		return fn(typed, r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.extend(id, reflect.TypeFor[T](), ext)
}

// register handles the typed registration helpers.
func register[T any](c *Container, lifetime Lifetime, factory func(Resolver) (T, error)) error {
	var wrapped Factory
	if factory != nil {
		wrapped = func(r Resolver) (any, error) {
			return factory(r)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.set(Key[T](), reflect.TypeFor[T](), wrapped, lifetime)
}

func assertType[T any](id ID, instance any) (T, error) {
	typed, ok := instance.(T)
	if !ok {
		var zero T
		return zero, withContext(errInvalidInstance(id, "resolution", instance), "expected_type", string(Key[T]()))
	}
	return typed, nil
}
