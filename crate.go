package crate

// Factory builds the instance for an entry. It receives the Resolver of the
// resolution in progress, so it can pull its own dependencies.
type Factory func(r Resolver) (any, error)

// Extender post-processes a resolved instance. The returned value must still
// be an instance of the entry's type.
type Extender func(instance any, r Resolver) (any, error)

// Resolver is the resolution API handed to factories, extenders and callers.
// *Container implements it, and so does the session threaded through a
// nested resolution.
type Resolver interface {
	// Get returns the cached or freshly resolved instance of a registered id.
	Get(id ID) (any, error)

	// Has reports whether id is registered.
	Has(id ID) bool

	// Make resolves id through its entry, or constructs it when args are
	// given or no entry exists.
	Make(id ID, args ...Arg) (any, error)

	// Inject always constructs a fresh instance of a defined class.
	Inject(id ID, args ...Arg) (any, error)

	// Call invokes fn, autowiring the parameters not covered by args.
	// It returns fn's results without the trailing error.
	Call(fn any, args ...Arg) ([]any, error)
}

// New creates an empty container.
func New(opts ...Option) *Container {
	return newContainer(opts...)
}
