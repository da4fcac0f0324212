package crate

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// DefineOption configures how a constructor or callable is described
type DefineOption interface {
	applyDefine(*defineConfig)
}

// defineConfig holds the metadata Go reflection cannot recover on its own
type defineConfig struct {
	names    []string            // Parameter names by position
	defaults map[string]any      // Default values by parameter name
	declared map[string]TypeSpec // Declared type overrides by parameter name
	parent   ID                  // Parent class, target of Parent()
	scope    ID                  // Class a callable is bound to, target of Self()
}

// defineOptionFunc is a function adapter for DefineOption
type defineOptionFunc func(*defineConfig)

func (f defineOptionFunc) applyDefine(c *defineConfig) { f(c) }

func newDefineConfig(opts []DefineOption) *defineConfig {
	cfg := &defineConfig{
		defaults: make(map[string]any),
		declared: make(map[string]TypeSpec),
	}
	for _, opt := range opts {
		opt.applyDefine(cfg)
	}
	return cfg
}

// ParamNames names the parameters in declaration order. Explicit arguments
// and defaults refer to parameters by these names; unnamed parameters are
// called arg0, arg1, ...
//
// Example:
//
//	crate.Define(c, NewMailer, crate.ParamNames("transport", "retries"))
func ParamNames(names ...string) DefineOption {
	return defineOptionFunc(func(c *defineConfig) {
		c.names = append(c.names[:0], names...)
	})
}

// Default gives a parameter a value used when nothing else fills it.
//
// Example:
//
//	crate.Define(c, NewMailer,
//	    crate.ParamNames("transport", "retries"),
//	    crate.Default("retries", 3),
//	)
func Default(name string, value any) DefineOption {
	return defineOptionFunc(func(c *defineConfig) {
		c.defaults[name] = value
	})
}

// DeclareType overrides the type classification of a parameter, for example
// to mark it as Self(), Parent() or a UnionOf several ids.
func DeclareType(name string, spec TypeSpec) DefineOption {
	return defineOptionFunc(func(c *defineConfig) {
		c.declared[name] = spec
	})
}

// WithParent declares the parent class used to resolve Parent() parameters.
func WithParent(id ID) DefineOption {
	return defineOptionFunc(func(c *defineConfig) {
		c.parent = id
	})
}

// BoundTo binds a callable to a class so Self() and Parent() parameters
// resolve against it. Only meaningful for Func.
func BoundTo(id ID) DefineOption {
	return defineOptionFunc(func(c *defineConfig) {
		c.scope = id
	})
}

// Class is a hand-written constructor table row, for classes whose
// constructor cannot or should not be described by reflection.
type Class struct {
	ID     ID
	Type   reflect.Type // optional, validates entries registered under ID
	Parent ID
	Params []ParamSpec

	// New receives one value per non-variadic parameter in declaration order,
	// followed by the variadic values.
	New func(args ...any) (any, error)
}

// Define registers a constructor function with automatic dependency resolution.
// The constructor must return the class as its first result and may return an
// error as its second; the class id is the id of the first result type.
//
// Parameters are filled, in declaration order, from explicit arguments,
// contextual bindings, registered entries and other defined classes.
//
// Example:
//
//	func NewUserService(db *Database, log *zap.Logger) *UserService {
//	    return &UserService{db: db, log: log}
//	}
//	crate.Define(c, NewUserService)
//
//	svc, err := crate.Make[*UserService](c)
func Define(c *Container, ctor any, opts ...DefineOption) (ID, error) {
	cfg := newDefineConfig(opts)

	info, fnType, err := analyzeFunc(ctor, cfg)
	if err != nil {
		return "", errs.NewError(CodeInjection, fmt.Sprintf("invalid constructor %T", ctor), err)
	}

	switch {
	case fnType.NumOut() == 1 && fnType.Out(0) != errorType:
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
	default:
		return "", errs.NewError(
			CodeInjection,
			fmt.Sprintf("invalid constructor %T: must return T or (T, error)", ctor),
			nil,
		)
	}

	info.typ = fnType.Out(0)
	info.id = typeID(info.typ)

	if err := c.defineClass(info); err != nil {
		return "", err
	}

	return info.id, nil
}

// MustDefine is like Define but panics on error. Use only during startup.
func MustDefine(c *Container, ctor any, opts ...DefineOption) ID {
	id, err := Define(c, ctor, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to define %T: %v", ctor, err))
	}
	return id
}

// DefineClass registers a hand-written constructor table row.
func (c *Container) DefineClass(class Class) error {
	if class.ID == "" {
		return errs.NewError(CodeInjection, "class id cannot be empty", nil)
	}
	if class.New == nil {
		return errs.NewError(CodeInjection, fmt.Sprintf("class %s has no New function", class.ID), nil)
	}

	params := make([]ParamSpec, len(class.Params))
	for i, p := range class.Params {
		p.Position = i
		if p.Variadic && i != len(class.Params)-1 {
			return errs.NewError(CodeInjection, fmt.Sprintf("class %s: only the last parameter can be variadic", class.ID), nil)
		}
		params[i] = p
	}

	newFn := class.New

	return c.defineClass(&constructor{
		id:     class.ID,
		typ:    class.Type,
		parent: class.Parent,
		params: params,
		call: func(args []any) (any, error) {
			return newFn(args...)
		},
	})
}

// Callable is a function plus the parameter metadata used to autowire it.
type Callable struct {
	fn       reflect.Value
	fnType   reflect.Type
	info     *constructor
	hasError bool
}

// Func describes fn for Call, naming its parameters and giving defaults.
// Passing a bare function to Call is equivalent to Func(fn).
//
// Example:
//
//	call, err := crate.Func(func(db *Database, limit int) ([]User, error) {
//	    return db.Users(limit)
//	}, crate.ParamNames("db", "limit"), crate.Default("limit", 10))
//
//	out, err := c.Call(call)
func Func(fn any, opts ...DefineOption) (*Callable, error) {
	cfg := newDefineConfig(opts)

	info, fnType, err := analyzeFunc(fn, cfg)
	if err != nil {
		return nil, errs.NewError(CodeInjection, fmt.Sprintf("invalid callable %T", fn), err)
	}

	// Self() inside a callable refers to the class it is bound to.
	info.id = cfg.scope

	return &Callable{
		fn:       reflect.ValueOf(fn),
		fnType:   fnType,
		info:     info,
		hasError: fnType.NumOut() > 0 && fnType.Out(fnType.NumOut()-1) == errorType,
	}, nil
}

// invoke calls the function with a complete argument list.
func (f *Callable) invoke(args []any) ([]any, error) {
	return callFunc(f.fn, f.fnType, args, f.hasError)
}
