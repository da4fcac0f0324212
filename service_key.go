package crate

import (
	"reflect"
)

// ID names an entry or a class inside one container.
// IDs derived from Go types with Key are package-qualified and stable.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Key returns the ID of the Go type T.
// The type parameter works for interfaces too, which makes it the usual way
// to name an abstraction:
//
//	crate.Key[*Database]()   // "*github.com/acme/app.Database"
//	crate.Key[io.Writer]()   // "io.Writer"
func Key[T any]() ID {
	return typeID(reflect.TypeFor[T]())
}

// KeyOf returns the ID of the dynamic type of v.
func KeyOf(v any) ID {
	return typeID(reflect.TypeOf(v))
}

// typeID builds a package-qualified name. reflect.Type.String only carries the
// package name, which collides across packages with the same name.
func typeID(t reflect.Type) ID {
	if t == nil {
		return "<nil>"
	}

	if t.Kind() == reflect.Ptr {
		return "*" + typeID(t.Elem())
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return ID(t.PkgPath() + "." + t.Name())
	}

	return ID(t.String())
}
