package crate

// Lifetime governs how long a resolved instance is cached.
type Lifetime uint8

const (
	// Transient entries are resolved on every Get and never cached.
	Transient Lifetime = iota

	// Scoped entries are cached until ClearScoped is called.
	Scoped

	// Singleton entries are cached for the life of the container.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

func (l Lifetime) cacheable() bool {
	return l != Transient
}
