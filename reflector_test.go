package crate

import (
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want TypeSpec
	}{
		{"any", reflect.TypeFor[any](), Untyped()},
		{"int", reflect.TypeFor[int](), Builtin("int")},
		{"string", reflect.TypeFor[string](), Builtin("string")},
		{"slice", reflect.TypeFor[[]int](), Builtin("[]int")},
		{"map", reflect.TypeFor[map[string]int](), Builtin("map[string]int")},
		{"func", reflect.TypeFor[func()](), Builtin("func()")},
		{"pointer to scalar", reflect.TypeFor[*int](), Builtin("*int")},
		{"interface", reflect.TypeFor[io.Writer](), Concrete("io.Writer")},
		{"named struct", reflect.TypeFor[time.Time](), Concrete("time.Time")},
		{"pointer to struct", reflect.TypeFor[*Basic](), Concrete(Key[*Basic]())},
		{"named scalar", reflect.TypeFor[time.Duration](), Builtin("time.Duration")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.typ))
		})
	}
}

func TestParametersOf(t *testing.T) {
	fnType := reflect.TypeOf(func(d time.Time, i int, rest ...string) {})

	params, err := parametersOf(fnType, newDefineConfig([]DefineOption{
		ParamNames("d", "i"),
		Default("i", 1),
	}))
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "d", params[0].Name)
	assert.Equal(t, Concrete("time.Time"), params[0].Type)
	assert.False(t, params[0].HasDefault)

	assert.Equal(t, "i", params[1].Name)
	assert.True(t, params[1].HasDefault)
	assert.Equal(t, 1, params[1].Default)

	assert.Equal(t, "arg2", params[2].Name)
	assert.True(t, params[2].Variadic)
	assert.Equal(t, Builtin("string"), params[2].Type)
}

func TestParametersOf_Errors(t *testing.T) {
	fnType := reflect.TypeOf(func(a, b int, rest ...int) {})

	tests := []struct {
		name string
		opts []DefineOption
		msg  string
	}{
		{"too many names", []DefineOption{ParamNames("a", "b", "c", "d")}, "4 parameter names given for 3 parameters"},
		{"duplicate name", []DefineOption{ParamNames("a", "a")}, `duplicate parameter name "a"`},
		{"unknown default", []DefineOption{Default("x", 1)}, `default given for unknown parameter "x"`},
		{"default type", []DefineOption{ParamNames("a"), Default("a", "one")}, `default for "a" is string`},
		{"variadic default", []DefineOption{ParamNames("a", "b", "rest"), Default("rest", 1)}, `variadic parameter "rest" cannot have a default`},
		{"unknown declared", []DefineOption{DeclareType("x", Self())}, `type declared for unknown parameter "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parametersOf(fnType, newDefineConfig(tt.opts))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestTypeSpec_String(t *testing.T) {
	assert.Equal(t, "a|b", UnionOf("a", "b").String())
	assert.Equal(t, "a&b", IntersectionOf("a", "b").String())
	assert.Equal(t, "untyped", Untyped().String())
	assert.Equal(t, "self", Self().String())
	assert.Equal(t, "int", Builtin("int").String())
}

func TestConstructor_ResolveSelfParent(t *testing.T) {
	ctor := &constructor{id: "child", parent: "base"}

	id, ok := ctor.resolveSelfParent(Self())
	assert.True(t, ok)
	assert.Equal(t, ID("child"), id)

	id, ok = ctor.resolveSelfParent(Parent())
	assert.True(t, ok)
	assert.Equal(t, ID("base"), id)

	id, ok = ctor.resolveSelfParent(Concrete("other"))
	assert.True(t, ok)
	assert.Equal(t, ID("other"), id)

	_, ok = (&constructor{}).resolveSelfParent(Parent())
	assert.False(t, ok)

	_, ok = (&constructor{}).resolveSelfParent(Self())
	assert.False(t, ok)
}

func TestParamSpec_Accepts(t *testing.T) {
	p := ParamSpec{rtype: reflect.TypeFor[Filesystem]()}

	assert.True(t, p.accepts(localFS{}))
	assert.True(t, p.accepts(nil))
	assert.False(t, p.accepts(42))

	scalar := ParamSpec{rtype: reflect.TypeFor[int]()}
	assert.False(t, scalar.accepts(nil))

	assert.True(t, ParamSpec{}.accepts("anything"))
}

func TestDescribeParam(t *testing.T) {
	assert.Equal(t, "i int", describeParam(ParamSpec{Name: "i", Type: Builtin("int")}))
	assert.Equal(t, "v", describeParam(ParamSpec{Name: "v", Type: Untyped()}))
}
