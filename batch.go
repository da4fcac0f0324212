package crate

import (
	"go.uber.org/multierr"
)

// Registration holds configuration for an entry to be registered in batch.
type Registration struct {
	ID       ID
	Factory  Factory
	Lifetime Lifetime
	Instance any
}

// Entry creates a Registration for batch registration.
//
// Example:
//
//	crate.RegisterAll(c,
//	    crate.Entry("db", NewDatabase, crate.Singleton),
//	    crate.Entry("cache", NewCache, crate.Scoped),
//	)
func Entry(id ID, factory Factory, lifetime Lifetime) Registration {
	return Registration{
		ID:       id,
		Factory:  factory,
		Lifetime: lifetime,
	}
}

// Value creates a Registration for a pre-built instance.
func Value(id ID, instance any) Registration {
	return Registration{
		ID:       id,
		Lifetime: Singleton,
		Instance: instance,
	}
}

// RegisterAll registers every registration under a single lock. Failing
// registrations do not stop the batch; all failures are returned combined.
func RegisterAll(c *Container, regs ...Registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error
	for _, reg := range regs {
		var err error
		if reg.Instance != nil {
			err = c.instance(reg.ID, nil, reg.Instance)
		} else {
			err = c.set(reg.ID, nil, reg.Factory, reg.Lifetime)
		}
		errs = multierr.Append(errs, err)
	}

	return errs
}
