package crate

import (
	"errors"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// entry is the registration record for one id.
type entry struct {
	id        ID
	typ       reflect.Type // nil for ids that carry no Go type
	lifetime  Lifetime
	factory   Factory
	extenders []Extender
	instance  any
}

func newEntry(id ID, typ reflect.Type) *entry {
	return &entry{id: id, typ: typ, lifetime: Transient}
}

// setResolver attaches or overwrites the factory. The cache is left alone.
func (e *entry) setResolver(factory Factory, lifetime Lifetime) {
	e.factory = factory
	e.lifetime = lifetime
}

func (e *entry) resolvable() bool {
	return e.factory != nil
}

func (e *entry) extended() bool {
	return len(e.extenders) > 0
}

func (e *entry) cached() bool {
	return e.instance != nil
}

// getInstance returns the cached instance or resolves a new one, running the
// extender chain in registration order.
func (e *entry) getInstance(r Resolver) (any, error) {
	if e.cached() && e.lifetime.cacheable() {
		return e.instance, nil
	}

	if e.factory == nil {
		return nil, errResolverNotFound(e.id)
	}

	instance, err := e.factory(r)
	if err != nil {
		return nil, wrapService(e.id, "resolve", err)
	}

	if err := e.validate("resolver", instance); err != nil {
		return nil, err
	}

	for _, ext := range e.extenders {
		if instance, err = e.applyExtender(ext, instance, r); err != nil {
			return nil, err
		}
	}

	if e.lifetime.cacheable() {
		e.instance = instance
	}

	return instance, nil
}

// extend appends to the chain. An already cached instance is re-derived by
// applying only the new extender.
// A failing extender is not kept.
func (e *entry) extend(ext Extender, r Resolver) error {
	if e.cached() {
		instance, err := e.applyExtender(ext, e.instance, r)
		if err != nil {
			return err
		}
		e.instance = instance
	}

	e.extenders = append(e.extenders, ext)

	return nil
}

// unsetInstance clears the cache and reports whether anything was cleared.
func (e *entry) unsetInstance() bool {
	if e.instance == nil {
		return false
	}
	e.instance = nil
	return true
}

func (e *entry) applyExtender(ext Extender, instance any, r Resolver) (any, error) {
	extended, err := ext(instance, r)
	if err != nil {
		return nil, wrapService(e.id, "extend", err)
	}

	if err := e.validate("extender", extended); err != nil {
		return nil, err
	}

	return extended, nil
}

// validate enforces that v is a non-nil instance of the entry's type.
func (e *entry) validate(stage string, v any) error {
	if isNil(v) {
		return errInvalidInstance(e.id, stage, v)
	}

	if e.typ != nil && !reflect.TypeOf(v).AssignableTo(e.typ) {
		return errInvalidInstance(e.id, stage, v)
	}

	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// wrapService leaves container errors untouched so that nested failures keep
// their code, and wraps anything else returned by user code.
func wrapService(id ID, operation string, err error) error {
	var cerr *errs.Error
	if errors.As(err, &cerr) {
		return err
	}
	return errService(id, operation, err)
}
