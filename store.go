package crate

import (
	"reflect"
)

// entryStore maps ids to entries and tracks which ids are scoped.
type entryStore struct {
	entries map[ID]*entry
	order   []ID // registration order, for diagnostics
	scoped  map[ID]struct{}
}

func newEntryStore() *entryStore {
	return &entryStore{
		entries: make(map[ID]*entry),
		scoped:  make(map[ID]struct{}),
	}
}

// get returns the entry for id or an EntryNotFound error.
func (s *entryStore) get(id ID) (*entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, errEntryNotFound(id)
	}
	return e, nil
}

func (s *entryStore) lookup(id ID) (*entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

func (s *entryStore) has(id ID) bool {
	_, ok := s.entries[id]
	return ok
}

// set attaches a factory to id. An entry that only carries extenders absorbs
// the factory and keeps its chain; an entry that already has a factory is a
// duplicate.
func (s *entryStore) set(id ID, typ reflect.Type, factory Factory, lifetime Lifetime) (*entry, error) {
	e, ok := s.entries[id]
	if ok && e.resolvable() {
		return nil, errDuplicateEntry(id)
	}

	if !ok {
		e = s.add(id, typ)
	} else if e.typ == nil {
		e.typ = typ
	}

	e.setResolver(factory, lifetime)

	if lifetime == Scoped {
		s.scoped[id] = struct{}{}
	}

	return e, nil
}

// ensure returns the entry for id, creating a bare one when missing.
func (s *entryStore) ensure(id ID, typ reflect.Type) *entry {
	if e, ok := s.entries[id]; ok {
		return e
	}
	return s.add(id, typ)
}

func (s *entryStore) add(id ID, typ reflect.Type) *entry {
	e := newEntry(id, typ)
	s.entries[id] = e
	s.order = append(s.order, id)
	return e
}

// remove deletes id and its scoped bookkeeping. It is idempotent.
func (s *entryStore) remove(id ID) bool {
	if _, ok := s.entries[id]; !ok {
		return false
	}

	delete(s.entries, id)
	delete(s.scoped, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return true
}

// clearScoped drops the cached instance of every scoped entry and returns how
// many were actually cleared. Singleton and transient entries are untouched.
func (s *entryStore) clearScoped() int {
	count := 0

	for id := range s.scoped {
		if e, ok := s.entries[id]; ok && e.unsetInstance() {
			count++
		}
	}

	s.scoped = make(map[ID]struct{})

	return count
}

// track re-flags a scoped entry after it caches a new instance, so that a
// later clearScoped still reaches it once the set was reset.
func (s *entryStore) track(e *entry) {
	if e.lifetime == Scoped {
		s.scoped[e.id] = struct{}{}
	}
}

// ids returns the registered ids in registration order.
func (s *entryStore) ids() []ID {
	out := make([]ID, len(s.order))
	copy(out, s.order)
	return out
}
