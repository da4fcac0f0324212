package crate

import (
	"github.com/xraph/go-utils/errs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// session is one top-level resolution. The container lock is held for its
// whole life, and the session is the Resolver handed to factories, extenders
// and nested resolutions, so re-entrant calls never touch the lock again.
type session struct {
	c    *Container
	path resolutionPath
}

var _ Resolver = (*session)(nil)

// Get resolves a registered id. Observer hooks fire only on cache misses.
func (s *session) Get(id ID) (any, error) {
	e, err := s.c.store.get(id)
	if err != nil {
		return nil, err
	}

	if e.cached() && e.lifetime.cacheable() {
		return e.instance, nil
	}

	if err := s.path.enter(id, frameEntry); err != nil {
		return nil, err
	}
	defer s.path.exit()

	s.c.observer.Resolving(id, e.lifetime)

	instance, err := e.getInstance(s)
	if err != nil {
		s.c.log.Debug("resolution failed",
			zap.String("id", string(id)),
			zap.Stringer("lifetime", e.lifetime),
			zap.Error(err),
		)
		return nil, err
	}

	s.c.store.track(e)
	s.c.observer.Resolved(id, e.lifetime, instance, e.cached())

	return instance, nil
}

// Has reports whether id is registered.
func (s *session) Has(id ID) bool {
	return s.c.store.has(id)
}

// Make resolves through the entry when id is registered and no args are
// given; otherwise it constructs a fresh instance.
func (s *session) Make(id ID, args ...Arg) (any, error) {
	if len(args) == 0 && s.c.store.has(id) {
		return s.Get(id)
	}
	return s.Inject(id, args...)
}

// Inject constructs a fresh instance of a defined class, bypassing entries.
func (s *session) Inject(id ID, args ...Arg) (any, error) {
	s.c.observer.Injecting(id)

	instance, err := s.create(id, args)
	if err != nil {
		return nil, err
	}

	s.c.observer.Injected(id, instance)

	return instance, nil
}

// Call invokes fn with autowired parameters. It never consults contextual
// bindings or entry caches directly.
func (s *session) Call(fn any, args ...Arg) ([]any, error) {
	callable, ok := fn.(*Callable)
	if !ok {
		var err error
		if callable, err = Func(fn); err != nil {
			return nil, err
		}
	}

	target := callable.info.id

	bound, err := bindArgs(callable.info, target, args)
	if err != nil {
		return nil, err
	}

	values, err := s.fill(callable.info, target, bound, nil)
	if err != nil {
		return nil, err
	}

	results, err := callable.invoke(values)
	if err != nil {
		return nil, wrapService(target, "call", err)
	}

	return results, nil
}

// create is the autowiring algorithm for one class.
func (s *session) create(id ID, args []Arg) (any, error) {
	ctor, ok := s.c.classes.get(id)
	if !ok {
		return nil, errInjection(id, "no constructor is defined for %s", id)
	}

	binding := s.c.contexts.lookup(id)

	bound, err := s.mergeArgs(ctor, id, binding, args)
	if err != nil {
		return nil, err
	}

	injections, err := contextualInjections(ctor, id, binding)
	if err != nil {
		return nil, err
	}

	if err := s.path.enter(id, frameInject); err != nil {
		return nil, err
	}
	defer s.path.exit()

	values, err := s.fill(ctor, id, bound, injections)
	if err != nil {
		return nil, err
	}

	instance, err := ctor.call(values)
	if err != nil {
		return nil, wrapService(id, "construct", err)
	}

	if isNil(instance) {
		return nil, errInvalidInstance(id, "constructor", instance)
	}

	return instance, nil
}

// mergeArgs binds contextual and explicit arguments separately, then lays
// the explicit ones over the contextual ones.
func (s *session) mergeArgs(ctor *constructor, id ID, binding *contextBinding, args []Arg) (boundArgs, error) {
	explicit, err := bindArgs(ctor, id, args)
	if err != nil {
		return boundArgs{}, err
	}

	if binding == nil || len(binding.arguments) == 0 {
		return explicit, nil
	}

	contextual, err := bindArgs(ctor, id, binding.arguments)
	if err != nil {
		return boundArgs{}, err
	}

	return overlay(contextual, explicit), nil
}

// contextualInjections returns the instances provided for consumer id and
// fails when any of them matches no parameter type.
func contextualInjections(ctor *constructor, id ID, binding *contextBinding) (map[ID]any, error) {
	if binding == nil || len(binding.provided) == 0 {
		return nil, nil
	}

	unmatched := make(map[ID]any, len(binding.provided))
	for key, v := range binding.provided {
		unmatched[key] = v
	}

	for _, p := range ctor.params {
		if p.Type.Kind != KindConcrete {
			continue
		}
		if key, ok := ctor.resolveSelfParent(p.Type); ok {
			delete(unmatched, key)
		}
	}

	var err error
	for _, key := range sortedIDs(unmatched) {
		err = multierr.Append(err, errInjection(id, "provided injection %s does not match any parameter", key).
			WithContext("injection", key).(*errs.Error))
	}
	if err != nil {
		return nil, err
	}

	return binding.provided, nil
}

// fill builds the complete argument list, in declaration order.
func (s *session) fill(ctor *constructor, target ID, bound boundArgs, injections map[ID]any) ([]any, error) {
	values := make([]any, ctor.fixed(), ctor.fixed()+len(bound.variadic))

	for i := 0; i < ctor.fixed(); i++ {
		p := ctor.params[i]

		if v, ok := bound.values[p.Position]; ok {
			values[i] = v
			continue
		}

		v, found, err := s.autowire(ctor, target, p, injections)
		if err != nil {
			return nil, err
		}

		switch {
		case found:
			values[i] = v
		case p.HasDefault:
			values[i] = p.Default
		default:
			return nil, errInjection(target, "cannot resolve parameter %s: nothing is registered or defined for %s", describeParam(p), p.Type)
		}
	}

	return append(values, bound.variadic...), nil
}

// autowire supplies one parameter from contextual injections, registered
// entries or defined classes. found is false when the parameter should fall
// back to its default.
func (s *session) autowire(ctor *constructor, target ID, p ParamSpec, injections map[ID]any) (any, bool, error) {
	if p.Type.Kind != KindConcrete {
		if p.HasDefault {
			return nil, false, nil
		}
		if p.Type.Kind == KindUntyped {
			return nil, false, errInjection(target, "parameter %s must be typed or have a default value", p.Name).
				WithContext("param", p.Name).(*errs.Error)
		}
		return nil, false, errInjection(target, "invalid type on parameter %s: %s are not allowed", describeParam(p), p.Type.Kind.category()).
			WithContext("param", p.Name).
			WithContext("category", p.Type.Kind.category()).(*errs.Error)
	}

	id, ok := ctor.resolveSelfParent(p.Type)
	if !ok {
		if p.HasDefault {
			return nil, false, nil
		}
		return nil, false, errInjection(target, "parameter %s refers to %s, which %s does not declare", describeParam(p), p.Type.ID, targetName(target)).
			WithContext("param", p.Name).(*errs.Error)
	}

	var (
		v   any
		err error
	)

	if provided, ok := injections[id]; ok {
		v = provided
	} else if e, ok := s.c.store.lookup(id); ok && e.resolvable() {
		v, err = s.Get(id)
	} else if s.c.classes.has(id) && !p.HasDefault {
		v, err = s.Make(id)
	} else {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	if !p.accepts(v) {
		return nil, false, errInjection(target, "%s resolved to %T, which is not assignable to parameter %s", id, v, describeParam(p))
	}

	return v, true, nil
}
