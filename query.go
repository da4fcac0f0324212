package crate

import (
	"reflect"
)

// EntryInfo is a snapshot of one registered entry.
type EntryInfo struct {
	ID         ID
	Type       string
	Lifetime   Lifetime
	Resolvable bool
	Extenders  int
	Cached     bool
	Defined    bool
}

// Inspect returns a snapshot of id. The second value is false when id is not
// registered.
func (c *Container) Inspect(id ID) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.lookup(id)
	if !ok {
		return EntryInfo{}, false
	}

	return c.info(e), true
}

// Entries returns the registered ids in registration order.
func (c *Container) Entries() []ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.ids()
}

func (c *Container) info(e *entry) EntryInfo {
	return EntryInfo{
		ID:         e.id,
		Type:       typeName(e.typ),
		Lifetime:   e.lifetime,
		Resolvable: e.resolvable(),
		Extenders:  len(e.extenders),
		Cached:     e.cached(),
		Defined:    c.classes.has(e.id),
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// EntryQuery defines criteria for querying entries. Nil fields match all.
type EntryQuery struct {
	// Lifetime filters by entry lifetime.
	Lifetime *Lifetime

	// Cached filters by whether an instance is currently cached.
	Cached *bool

	// Extended filters by whether the entry has extenders.
	Extended *bool
}

// Query returns the entries matching query, in registration order.
//
// Example:
//
//	scoped := crate.Scoped
//	results := crate.Query(c, crate.EntryQuery{Lifetime: &scoped})
func Query(c *Container, query EntryQuery) []EntryInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	var results []EntryInfo

	for _, id := range c.store.ids() {
		e, ok := c.store.lookup(id)
		if !ok {
			continue
		}

		// Bare entries only carry extenders and have no lifetime of their own
		if query.Lifetime != nil && (!e.resolvable() || e.lifetime != *query.Lifetime) {
			continue
		}

		if query.Cached != nil && e.cached() != *query.Cached {
			continue
		}

		if query.Extended != nil && e.extended() != *query.Extended {
			continue
		}

		results = append(results, c.info(e))
	}

	return results
}

// FindByLifetime returns all entries with a specific lifetime.
func FindByLifetime(c *Container, lifetime Lifetime) []EntryInfo {
	return Query(c, EntryQuery{Lifetime: &lifetime})
}

// FindCached returns all entries currently holding an instance.
func FindCached(c *Container) []EntryInfo {
	cached := true
	return Query(c, EntryQuery{Cached: &cached})
}
