package crate

// contextBinding holds the overrides that apply while one consumer is being
// constructed.
type contextBinding struct {
	consumer  ID
	provided  map[ID]any
	arguments []Arg
}

// contextRegistry maps consumers to their bindings.
type contextRegistry struct {
	bindings map[ID]*contextBinding
}

func newContextRegistry() *contextRegistry {
	return &contextRegistry{
		bindings: make(map[ID]*contextBinding),
	}
}

// bind returns the binding for consumer, creating it on first use.
func (r *contextRegistry) bind(consumer ID) *contextBinding {
	b, ok := r.bindings[consumer]
	if !ok {
		b = &contextBinding{consumer: consumer, provided: make(map[ID]any)}
		r.bindings[consumer] = b
	}
	return b
}

// lookup returns the binding for consumer, or nil.
func (r *contextRegistry) lookup(consumer ID) *contextBinding {
	return r.bindings[consumer]
}

// ContextBuilder implements the fluent contextual binding API.
//
//	c.WhenInjecting(crate.Key[*PhotoController]()).
//	    Provide(crate.Key[Filesystem](), s3).
//	    PassArguments(crate.Named("bucket", "photos"))
type ContextBuilder struct {
	container *Container
	consumer  ID
}

// Provide supplies instance for every parameter of type id while the
// consumer is being constructed. A provided id that matches none of the
// consumer's parameters makes the construction fail.
func (b *ContextBuilder) Provide(id ID, instance any) *ContextBuilder {
	b.container.mu.Lock()
	defer b.container.mu.Unlock()

	b.container.contexts.bind(b.consumer).provided[id] = instance

	return b
}

// PassArguments supplies raw argument values by name or position. Later
// calls overwrite earlier ones on the same key.
func (b *ContextBuilder) PassArguments(args ...Arg) *ContextBuilder {
	b.container.mu.Lock()
	defer b.container.mu.Unlock()

	binding := b.container.contexts.bind(b.consumer)
	for _, arg := range args {
		binding.arguments = replaceArg(binding.arguments, arg)
	}

	return b
}

// Provide is the typed form of ContextBuilder.Provide.
func Provide[T any](b *ContextBuilder, instance T) *ContextBuilder {
	return b.Provide(Key[T](), instance)
}
