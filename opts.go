package crate

import "go.uber.org/zap"

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for registration and resolution
// diagnostics. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log.Named("crate")
		}
	}
}

// WithObserver adds an observer. Observers are notified in the order they
// are added.
func WithObserver(observer Observer) Option {
	return func(c *Container) {
		c.observer.add(observer)
	}
}
