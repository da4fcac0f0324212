package crate

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/zap"
)

// Container holds registered entries and defined classes, and resolves them.
//
// Every public method takes one coarse lock. Factories, extenders and
// constructors receive a Resolver bound to the resolution in progress and
// must use it, not the Container, for nested lookups.
type Container struct {
	store    *entryStore
	classes  *classTable
	contexts *contextRegistry
	observer *observerChain
	log      *zap.Logger
	mu       sync.Mutex
}

var _ Resolver = (*Container)(nil)

// newContainer creates a new container.
func newContainer(opts ...Option) *Container {
	c := &Container{
		store:    newEntryStore(),
		classes:  newClassTable(),
		contexts: newContextRegistry(),
		observer: newObserverChain(),
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Container) newSession() *session {
	return &session{c: c}
}

// =============================================================================
// REGISTRATION
// =============================================================================

// Set registers factory for id with the given lifetime. A nil factory
// autowires id through its defined constructor. Registering an id that
// already has a resolver fails with a DuplicateEntry error; an id that was
// only extended keeps its extenders.
//
// Instances are checked against a Go type, failing with InvalidInstance, only
// when id has one: registered through a typed helper such as
// RegisterSingleton, or defined with Define or DefineClass. A raw string id,
// or Key[T]() used without either, is not type checked.
func (c *Container) Set(id ID, factory Factory, lifetime Lifetime) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.set(id, nil, factory, lifetime)
}

// Bind registers a transient factory.
func (c *Container) Bind(id ID, factory Factory) error {
	return c.Set(id, factory, Transient)
}

// Singleton registers a factory whose result is cached for the container's life.
func (c *Container) Singleton(id ID, factory Factory) error {
	return c.Set(id, factory, Singleton)
}

// Scoped registers a factory whose result is cached until ClearScoped.
func (c *Container) Scoped(id ID, factory Factory) error {
	return c.Set(id, factory, Scoped)
}

// Instance registers a pre-built value as a singleton. Extenders already
// attached to id are applied to it immediately. Type checking follows Set.
func (c *Container) Instance(id ID, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.instance(id, nil, instance)
}

// Extend attaches an extender to id. The id does not need to be registered
// yet; a later Set inherits the chain. An already cached instance is
// extended in place.
func (c *Container) Extend(id ID, ext Extender) error {
	if ext == nil {
		return errs.NewError(CodeInjection, fmt.Sprintf("extender for %s cannot be nil", id), nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.extend(id, nil, ext)
}

// WhenInjecting starts a contextual binding that applies only while the
// consumer class is being constructed.
func (c *Container) WhenInjecting(consumer ID) *ContextBuilder {
	c.mu.Lock()
	c.contexts.bind(consumer)
	c.mu.Unlock()

	return &ContextBuilder{container: c, consumer: consumer}
}

// Unset removes id and its cached instance. It reports whether id existed.
func (c *Container) Unset(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.store.remove(id)
	if removed {
		c.log.Debug("entry removed", zap.String("id", string(id)))
	}

	return removed
}

// ClearScoped drops every cached scoped instance and returns how many were
// dropped. Singleton and transient entries are not affected.
func (c *Container) ClearScoped() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := c.store.clearScoped()
	c.log.Debug("scoped instances cleared", zap.Int("count", count))

	return count
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Get returns the instance registered for id. Cached instances are returned
// without notifying observers.
func (c *Container) Get(id ID) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.newSession().Get(id)
}

// Has reports whether id is registered.
func (c *Container) Has(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.has(id)
}

// Make behaves like Get when id is registered and no args are given, and
// like Inject otherwise.
func (c *Container) Make(id ID, args ...Arg) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.newSession().Make(id, args...)
}

// Inject constructs a fresh instance of the class id, autowiring every
// parameter not given in args.
func (c *Container) Inject(id ID, args ...Arg) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.newSession().Inject(id, args...)
}

// Call invokes fn, a function or a *Callable, autowiring its parameters.
func (c *Container) Call(fn any, args ...Arg) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.newSession().Call(fn, args...)
}

// Pull resolves id and then removes its entry.
func (c *Container) Pull(id ID) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	instance, err := c.newSession().Get(id)
	if err != nil {
		return nil, err
	}

	c.store.remove(id)

	return instance, nil
}

// =============================================================================
// INTERNALS (caller holds c.mu)
// =============================================================================

func (c *Container) set(id ID, typ reflect.Type, factory Factory, lifetime Lifetime) error {
	if id == "" {
		return errs.NewError(CodeInjection, "id cannot be empty", nil)
	}

	if typ == nil {
		typ = c.classes.typeOf(id)
	}

	if factory == nil {
		factory = autowireFactory(id)
	}

	if _, err := c.store.set(id, typ, factory, lifetime); err != nil {
		return err
	}

	c.log.Debug("entry registered",
		zap.String("id", string(id)),
		zap.Stringer("lifetime", lifetime),
	)

	return nil
}

func (c *Container) instance(id ID, typ reflect.Type, instance any) error {
	if e, ok := c.store.lookup(id); ok && e.resolvable() {
		return errDuplicateEntry(id)
	}

	if typ == nil {
		typ = c.classes.typeOf(id)
	}

	e := c.store.ensure(id, typ)
	if e.typ == nil {
		e.typ = typ
	}

	if err := e.validate("instance", instance); err != nil {
		return err
	}

	s := c.newSession()
	for _, ext := range e.extenders {
		extended, err := e.applyExtender(ext, instance, s)
		if err != nil {
			return err
		}
		instance = extended
	}

	fixed := instance
	e.setResolver(func(Resolver) (any, error) { return fixed, nil }, Singleton)
	e.instance = instance

	c.log.Debug("instance registered", zap.String("id", string(id)))

	return nil
}

func (c *Container) extend(id ID, typ reflect.Type, ext Extender) error {
	if typ == nil {
		typ = c.classes.typeOf(id)
	}

	e := c.store.ensure(id, typ)
	if e.typ == nil {
		e.typ = typ
	}

	return e.extend(ext, c.newSession())
}

func (c *Container) defineClass(ctor *constructor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.classes.register(ctor); err != nil {
		return err
	}

	if e, ok := c.store.lookup(ctor.id); ok && e.typ == nil {
		e.typ = ctor.typ
	}

	c.log.Debug("class defined",
		zap.String("id", string(ctor.id)),
		zap.Int("params", len(ctor.params)),
	)

	return nil
}

// autowireFactory is the resolver used when Set is given no factory.
func autowireFactory(id ID) Factory {
	return func(r Resolver) (any, error) {
		return r.Inject(id)
	}
}
