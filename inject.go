package crate

import (
	"fmt"
	"reflect"
	"sort"
)

// Arg is an explicit argument value for one parameter, addressed by name or
// by position.
type Arg struct {
	Name     string
	Position int
	Value    any
}

// Named addresses a parameter by the name given with ParamNames.
//
// Usage:
//
//	c.Make(crate.Key[*Basic](), crate.Named("i", 2))
func Named(name string, value any) Arg {
	return Arg{Name: name, Position: -1, Value: value}
}

// At addresses a parameter by its zero-based position. Positions past the
// last fixed parameter of a variadic function feed the variadic tail.
func At(position int, value any) Arg {
	return Arg{Position: position, Value: value}
}

func (a Arg) named() bool {
	return a.Name != ""
}

func (a Arg) String() string {
	if a.named() {
		return fmt.Sprintf("%q", a.Name)
	}
	return fmt.Sprintf("#%d", a.Position)
}

// replaceArg sets arg in args, overwriting an existing arg with the same key.
func replaceArg(args []Arg, arg Arg) []Arg {
	for i, existing := range args {
		if existing.named() == arg.named() && existing.Name == arg.Name && existing.Position == arg.Position {
			args[i] = arg
			return args
		}
	}
	return append(args, arg)
}

// boundArgs is an argument list normalised against a parameter list.
type boundArgs struct {
	values   map[int]any // fixed parameters by position
	variadic []any
	spread   bool // the variadic tail was given explicitly
}

// bindArgs matches args to the parameters of ctor. Arguments that address no
// parameter, address one parameter twice, or carry a value of the wrong type
// are rejected.
func bindArgs(ctor *constructor, target ID, args []Arg) (boundArgs, error) {
	bound := boundArgs{values: make(map[int]any, len(args))}
	tail := make(map[int]any)
	fixed := ctor.fixed()
	variadic, hasVariadic := ctor.variadic()

	for _, arg := range args {
		var p ParamSpec

		switch {
		case arg.named():
			param, ok := ctor.param(arg.Name)
			if !ok {
				return bound, errInjection(target, "argument with name %q does not exist", arg.Name)
			}
			p = param
		case arg.Position >= 0 && arg.Position < fixed:
			p = ctor.params[arg.Position]
		case arg.Position >= fixed && hasVariadic:
			if _, dup := tail[arg.Position]; dup {
				return bound, errInjection(target, "argument %s is given more than once", arg)
			}
			if !variadic.accepts(arg.Value) {
				return bound, errInjection(target, "argument %s: %T is not assignable to %s", arg, arg.Value, describeParam(variadic))
			}
			tail[arg.Position] = arg.Value
			continue
		default:
			return bound, errInjection(target, "argument with position %d does not exist", arg.Position)
		}

		if p.Variadic {
			if bound.spread {
				return bound, errInjection(target, "argument %s is given more than once", arg)
			}
			values, err := spreadVariadic(p, target, arg)
			if err != nil {
				return bound, err
			}
			bound.variadic = values
			bound.spread = true
			continue
		}

		if _, dup := bound.values[p.Position]; dup {
			return bound, errInjection(target, "argument %s is given more than once for parameter %s", arg, describeParam(p))
		}

		if !p.accepts(arg.Value) {
			return bound, errInjection(target, "argument %s: %T is not assignable to %s", arg, arg.Value, describeParam(p))
		}

		bound.values[p.Position] = arg.Value
	}

	if len(tail) > 0 {
		if bound.spread {
			return bound, errInjection(target, "variadic parameter %s is given both by name and by position", variadic.Name)
		}
		positions := make([]int, 0, len(tail))
		for pos := range tail {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		for _, pos := range positions {
			bound.variadic = append(bound.variadic, tail[pos])
		}
		bound.spread = true
	}

	return bound, nil
}

// spreadVariadic turns a named variadic argument into its values. A slice
// of the element type is spread; anything else is a single value.
func spreadVariadic(p ParamSpec, target ID, arg Arg) ([]any, error) {
	if p.rtype != nil && arg.Value != nil {
		rv := reflect.ValueOf(arg.Value)
		if rv.Kind() == reflect.Slice && rv.Type().AssignableTo(reflect.SliceOf(p.rtype)) {
			values := make([]any, rv.Len())
			for i := range values {
				values[i] = rv.Index(i).Interface()
			}
			return values, nil
		}
	}

	if !p.accepts(arg.Value) {
		return nil, errInjection(target, "argument %s: %T is not assignable to %s", arg, arg.Value, describeParam(p))
	}

	return []any{arg.Value}, nil
}

// overlay merges explicit arguments over contextual ones. Explicit values win
// on every parameter they address.
func overlay(contextual, explicit boundArgs) boundArgs {
	merged := boundArgs{
		values:   make(map[int]any, len(contextual.values)+len(explicit.values)),
		variadic: contextual.variadic,
		spread:   contextual.spread,
	}
	for pos, v := range contextual.values {
		merged.values[pos] = v
	}
	for pos, v := range explicit.values {
		merged.values[pos] = v
	}
	if explicit.spread {
		merged.variadic = explicit.variadic
		merged.spread = true
	}
	return merged
}
