package crate

import (
	"reflect"
)

// classTable holds the constructors captured by Define and DefineClass.
// A class is "instantiable" exactly when it has a row here.
type classTable struct {
	classes map[ID]*constructor
}

func newClassTable() *classTable {
	return &classTable{
		classes: make(map[ID]*constructor),
	}
}

// register adds a constructor; each id can be defined once
func (t *classTable) register(ctor *constructor) error {
	if _, exists := t.classes[ctor.id]; exists {
		return errDuplicateClass(ctor.id)
	}
	t.classes[ctor.id] = ctor
	return nil
}

func (t *classTable) get(id ID) (*constructor, bool) {
	ctor, ok := t.classes[id]
	return ctor, ok
}

func (t *classTable) has(id ID) bool {
	_, ok := t.classes[id]
	return ok
}

// typeOf returns the Go type recorded for id, or nil.
func (t *classTable) typeOf(id ID) reflect.Type {
	if ctor, ok := t.classes[id]; ok {
		return ctor.typ
	}
	return nil
}
