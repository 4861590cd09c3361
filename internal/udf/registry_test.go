package udf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adqlcore/internal/types"
	"adqlcore/internal/udf"
)

func mustParse(t *testing.T, spec string) *udf.FunctionDef {
	t.Helper()
	fn, err := udf.Parse(spec)
	require.NoError(t, err)
	return fn
}

func TestRegistryResolvePicksMostSpecificOverload(t *testing.T) {
	r := udf.NewRegistry()
	generic := mustParse(t, "combine(a string, b string) -> string")
	numeric := mustParse(t, "combine(a double, b double) -> double")
	r.Register(generic)
	r.Register(numeric)

	got := r.Resolve("combine", []types.DataType{types.New(types.DOUBLE), types.New(types.DOUBLE)})
	require.NotNil(t, got)
	assert.Same(t, numeric, got)
}

func TestRegistryResolveNoArityMatchReturnsNil(t *testing.T) {
	r := udf.NewRegistry()
	r.Register(mustParse(t, "combine(a string, b string) -> string"))

	got := r.Resolve("combine", []types.DataType{types.New(types.DOUBLE)})
	assert.Nil(t, got)
	assert.True(t, r.HasAnyArity("combine"), "an overload exists at a different arity")
}

func TestRegistryUnknownNameHasNoOverloads(t *testing.T) {
	r := udf.NewRegistry()
	assert.False(t, r.HasAnyArity("never_declared"))
	assert.Nil(t, r.Lookup("never_declared"))
}

func TestRegistryRegisterDeduplicatesIdenticalSignature(t *testing.T) {
	r := udf.NewRegistry()
	first := mustParse(t, "f(a double) -> double")
	second := mustParse(t, "f(a double) -> integer")
	r.Register(first)
	r.Register(second)

	all := r.Lookup("f")
	require.Len(t, all, 1, "the later registration with an identical signature must not add a second entry")
	assert.Same(t, first, all[0])
}

func TestRegistryResolveGeometryCountsAsStringBit(t *testing.T) {
	r := udf.NewRegistry()
	fn := mustParse(t, "near(a point, b point) -> integer")
	r.Register(fn)

	got := r.Resolve("near", []types.DataType{types.New(types.POINT), types.New(types.POINT)})
	assert.Same(t, fn, got)
}

func TestFunctionDefArityAndSortKey(t *testing.T) {
	fn := mustParse(t, "combine(a double, b string) -> string")
	assert.Equal(t, 2, fn.Arity())
	name, bits := fn.SortKey()
	assert.Equal(t, "combine", name)
	assert.Len(t, bits, 2)
}
