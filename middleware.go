package crate

// Observer receives lifecycle notifications around resolution.
// Observers are called synchronously while the container is locked; they must
// not call back into the container.
type Observer interface {
	// Resolving is called before an entry is resolved on a cache miss.
	Resolving(id ID, lifetime Lifetime)

	// Resolved is called after a cache-miss resolution succeeded. cached
	// reports whether the instance is now held by the entry.
	Resolved(id ID, lifetime Lifetime, instance any, cached bool)

	// Injecting is called before a class is constructed.
	Injecting(id ID)

	// Injected is called after a class was constructed.
	Injected(id ID, instance any)
}

// observerChain fans notifications out to several observers.
type observerChain struct {
	observers []Observer
}

// newObserverChain creates a new observer chain.
func newObserverChain() *observerChain {
	return &observerChain{
		observers: make([]Observer, 0),
	}
}

// add appends an observer to the chain.
func (o *observerChain) add(observer Observer) {
	if observer != nil {
		o.observers = append(o.observers, observer)
	}
}

func (o *observerChain) Resolving(id ID, lifetime Lifetime) {
	for _, obs := range o.observers {
		obs.Resolving(id, lifetime)
	}
}

func (o *observerChain) Resolved(id ID, lifetime Lifetime, instance any, cached bool) {
	for _, obs := range o.observers {
		obs.Resolved(id, lifetime, instance, cached)
	}
}

func (o *observerChain) Injecting(id ID) {
	for _, obs := range o.observers {
		obs.Injecting(id)
	}
}

func (o *observerChain) Injected(id ID, instance any) {
	for _, obs := range o.observers {
		obs.Injected(id, instance)
	}
}

// FuncObserver wraps functions as an Observer. Nil fields are no-ops.
type FuncObserver struct {
	ResolvingFunc func(id ID, lifetime Lifetime)
	ResolvedFunc  func(id ID, lifetime Lifetime, instance any, cached bool)
	InjectingFunc func(id ID)
	InjectedFunc  func(id ID, instance any)
}

// Resolving implements Observer.
func (f *FuncObserver) Resolving(id ID, lifetime Lifetime) {
	if f.ResolvingFunc != nil {
		f.ResolvingFunc(id, lifetime)
	}
}

// Resolved implements Observer.
func (f *FuncObserver) Resolved(id ID, lifetime Lifetime, instance any, cached bool) {
	if f.ResolvedFunc != nil {
		f.ResolvedFunc(id, lifetime, instance, cached)
	}
}

// Injecting implements Observer.
func (f *FuncObserver) Injecting(id ID) {
	if f.InjectingFunc != nil {
		f.InjectingFunc(id)
	}
}

// Injected implements Observer.
func (f *FuncObserver) Injected(id ID, instance any) {
	if f.InjectedFunc != nil {
		f.InjectedFunc(id, instance)
	}
}
