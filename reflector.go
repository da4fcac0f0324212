package crate

import (
	"fmt"
	"reflect"
)

// TypeKind classifies the declared type of a parameter.
type TypeKind uint8

const (
	// KindUntyped is a parameter with no usable type (any).
	KindUntyped TypeKind = iota

	// KindBuiltin is a scalar or unnamed composite type.
	KindBuiltin

	// KindUnion is a parameter declared as one of several types.
	KindUnion

	// KindIntersection is a parameter declared as all of several types.
	KindIntersection

	// KindConcrete is a named type that can be resolved by its ID.
	KindConcrete
)

// category is used in injection errors.
func (k TypeKind) category() string {
	switch k {
	case KindUntyped:
		return "untyped parameters"
	case KindBuiltin:
		return "built-in types"
	case KindUnion:
		return "union types"
	case KindIntersection:
		return "intersection types"
	default:
		return "unknown types"
	}
}

const (
	selfID   ID = "self"
	parentID ID = "parent"
)

// TypeSpec is the declared type of a parameter.
type TypeSpec struct {
	Kind    TypeKind
	ID      ID   // concrete id, "self", "parent", or the builtin's name
	Members []ID // union / intersection members
}

// Concrete declares a parameter of the given id.
func Concrete(id ID) TypeSpec { return TypeSpec{Kind: KindConcrete, ID: id} }

// Self declares a parameter of the class being constructed.
func Self() TypeSpec { return Concrete(selfID) }

// Parent declares a parameter of the declared parent of the class being constructed.
func Parent() TypeSpec { return Concrete(parentID) }

// Builtin declares a scalar parameter.
func Builtin(name string) TypeSpec { return TypeSpec{Kind: KindBuiltin, ID: ID(name)} }

// Untyped declares a parameter without type information.
func Untyped() TypeSpec { return TypeSpec{Kind: KindUntyped} }

// UnionOf declares a parameter accepting any of ids.
func UnionOf(ids ...ID) TypeSpec { return TypeSpec{Kind: KindUnion, Members: ids} }

// IntersectionOf declares a parameter that must satisfy all of ids.
func IntersectionOf(ids ...ID) TypeSpec { return TypeSpec{Kind: KindIntersection, Members: ids} }

func (t TypeSpec) String() string {
	switch t.Kind {
	case KindUnion:
		return joinIDs(t.Members, "|")
	case KindIntersection:
		return joinIDs(t.Members, "&")
	case KindUntyped:
		return "untyped"
	default:
		return string(t.ID)
	}
}

// ParamSpec describes one constructor or function parameter.
type ParamSpec struct {
	Name       string
	Position   int
	Type       TypeSpec
	HasDefault bool
	Default    any
	Variadic   bool

	// rtype is the Go type a value must be assignable to; for a variadic
	// parameter it is the element type. Nil for hand-written classes.
	rtype reflect.Type
}

// accepts reports whether v can be passed for this parameter.
func (p ParamSpec) accepts(v any) bool {
	if p.rtype == nil {
		return true
	}
	if v == nil {
		return nillable(p.rtype)
	}
	return reflect.TypeOf(v).AssignableTo(p.rtype)
}

// constructor is the registration-time capture of how to build one class.
type constructor struct {
	id     ID
	typ    reflect.Type
	parent ID
	params []ParamSpec

	// call receives one value per declared non-variadic parameter followed by
	// the variadic values, if any.
	call func(args []any) (any, error)
}

// variadic returns the variadic parameter, if the constructor has one.
func (c *constructor) variadic() (ParamSpec, bool) {
	if n := len(c.params); n > 0 && c.params[n-1].Variadic {
		return c.params[n-1], true
	}
	return ParamSpec{}, false
}

// fixed returns the number of non-variadic parameters.
func (c *constructor) fixed() int {
	if _, ok := c.variadic(); ok {
		return len(c.params) - 1
	}
	return len(c.params)
}

// param looks a parameter up by name.
func (c *constructor) param(name string) (ParamSpec, bool) {
	for _, p := range c.params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// resolveSelfParent maps the self/parent pseudo types to concrete ids. The
// second result is false when spec names parent and the class declares none.
func (c *constructor) resolveSelfParent(spec TypeSpec) (ID, bool) {
	switch spec.ID {
	case selfID:
		if c.id == "" {
			return spec.ID, false
		}
		return c.id, true
	case parentID:
		if c.parent == "" {
			return spec.ID, false
		}
		return c.parent, true
	default:
		return spec.ID, true
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// analyzeFunc inspects fn and captures its parameter metadata.
func analyzeFunc(fn any, cfg *defineConfig) (*constructor, reflect.Type, error) {
	fnValue := reflect.ValueOf(fn)
	if !fnValue.IsValid() || fnValue.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("expected a function, got %T", fn)
	}
	if fnValue.IsNil() {
		return nil, nil, fmt.Errorf("function cannot be nil")
	}

	fnType := fnValue.Type()

	params, err := parametersOf(fnType, cfg)
	if err != nil {
		return nil, nil, err
	}

	hasError := fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1) == errorType

	ctor := &constructor{
		parent: cfg.parent,
		params: params,
		call: func(args []any) (any, error) {
			results, err := callFunc(fnValue, fnType, args, hasError)
			if err != nil || len(results) == 0 {
				return nil, err
			}
			return results[0], nil
		},
	}

	return ctor, fnType, nil
}

// parametersOf captures the ParamSpec list of a function type.
func parametersOf(fnType reflect.Type, cfg *defineConfig) ([]ParamSpec, error) {
	if len(cfg.names) > fnType.NumIn() {
		return nil, fmt.Errorf("%d parameter names given for %d parameters", len(cfg.names), fnType.NumIn())
	}

	params := make([]ParamSpec, fnType.NumIn())
	seen := make(map[string]bool, fnType.NumIn())

	for i := 0; i < fnType.NumIn(); i++ {
		t := fnType.In(i)
		variadic := fnType.IsVariadic() && i == fnType.NumIn()-1
		if variadic {
			t = t.Elem()
		}

		name := fmt.Sprintf("arg%d", i)
		if i < len(cfg.names) && cfg.names[i] != "" {
			name = cfg.names[i]
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate parameter name %q", name)
		}
		seen[name] = true

		spec := classify(t)
		if declared, ok := cfg.declared[name]; ok {
			spec = declared
		}

		params[i] = ParamSpec{
			Name:     name,
			Position: i,
			Type:     spec,
			Variadic: variadic,
			rtype:    t,
		}
	}

	if err := applyDefaults(params, cfg); err != nil {
		return nil, err
	}

	for name := range cfg.declared {
		if !seen[name] {
			return nil, fmt.Errorf("type declared for unknown parameter %q", name)
		}
	}

	return params, nil
}

func applyDefaults(params []ParamSpec, cfg *defineConfig) error {
	for name, value := range cfg.defaults {
		found := false
		for i := range params {
			if params[i].Name != name {
				continue
			}
			if params[i].Variadic {
				return fmt.Errorf("variadic parameter %q cannot have a default", name)
			}
			if !params[i].accepts(value) {
				return fmt.Errorf("default for %q is %T, not assignable to %s", name, value, params[i].rtype)
			}
			params[i].HasDefault = true
			params[i].Default = value
			found = true
		}
		if !found {
			return fmt.Errorf("default given for unknown parameter %q", name)
		}
	}
	return nil
}

// classify maps a Go type to a TypeSpec.
func classify(t reflect.Type) TypeSpec {
	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Untyped()
		}
		return Concrete(typeID(t))
	case reflect.Ptr:
		if elem := classify(t.Elem()); elem.Kind != KindConcrete {
			return Builtin(t.String())
		}
		return Concrete(typeID(t))
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.UnsafePointer:
		return Builtin(t.String())
	}

	if t.Name() == "" {
		return Builtin(t.String())
	}

	return Concrete(typeID(t))
}

// callFunc invokes fn with the given values and splits off a trailing error.
func callFunc(fn reflect.Value, fnType reflect.Type, args []any, hasError bool) ([]any, error) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = valueFor(argType(fnType, i), arg)
	}

	out := fn.Call(in)

	if hasError {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}

	return results, nil
}

// argType returns the type of the i-th actual argument, accounting for the
// variadic tail.
func argType(fnType reflect.Type, i int) reflect.Type {
	last := fnType.NumIn() - 1
	if fnType.IsVariadic() && i >= last {
		return fnType.In(last).Elem()
	}
	return fnType.In(i)
}

func valueFor(t reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != t && rv.Type().AssignableTo(t) {
		converted := reflect.New(t).Elem()
		converted.Set(rv)
		return converted
	}
	return rv
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// describeParam renders a parameter for error messages, e.g. "i int".
func describeParam(p ParamSpec) string {
	if p.Type.Kind == KindUntyped {
		return p.Name
	}
	return p.Name + " " + p.Type.String()
}
