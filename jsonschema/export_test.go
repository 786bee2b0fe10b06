package jsonschema_test

import (
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spark "github.com/ash-project/spark-sub001"
	"github.com/ash-project/spark-sub001/jsonschema"
)

func TestFromOptions(t *testing.T) {
	tls := spark.MustSchema(
		spark.Opt("cert", spark.OptionSpec{Type: spark.StringType, Required: true}),
	)
	s := spark.MustSchema(
		spark.Opt("name", spark.OptionSpec{Type: spark.StringType, Required: true, Doc: "service name"}),
		spark.Opt("port", spark.OptionSpec{Type: spark.InRange(1, 65535), Default: int64(4000), HasDefault: true}),
		spark.Opt("mode", spark.OptionSpec{Type: spark.OneOf{spark.Atom("dev"), spark.Atom("prod")}, Default: spark.Atom("dev"), HasDefault: true}),
		spark.Opt("hosts", spark.OptionSpec{Type: spark.WrapList{Elem: spark.StringType}}),
		spark.Opt("tls", spark.OptionSpec{Type: spark.NonEmptyKeywordListOf{Schema: tls}}),
		spark.Opt("old", spark.OptionSpec{Type: spark.BooleanType, Deprecated: "use :mode"}),
	)

	out := jsonschema.FromOptions(s)
	assert.Equal(t, jsonschema.Draft, out.Schema)
	assert.Equal(t, "object", out.Type)
	assert.Equal(t, false, out.AdditionalProperties)
	assert.Equal(t, []string{"name"}, out.Required)
	require.Len(t, out.Properties, 6)

	assert.Equal(t, "service name", out.Properties["name"].Description)
	port := out.Properties["port"]
	assert.Equal(t, int64(1), *port.Minimum)
	assert.Equal(t, int64(65535), *port.Maximum)
	assert.Equal(t, int64(4000), port.Default)
	mode := out.Properties["mode"]
	assert.Equal(t, []any{":dev", ":prod"}, mode.Enum)
	assert.Equal(t, ":dev", mode.Default)
	hosts := out.Properties["hosts"]
	require.Len(t, hosts.AnyOf, 2)
	assert.Equal(t, "array", hosts.AnyOf[1].Type)
	tlsOut := out.Properties["tls"]
	assert.Equal(t, []string{"cert"}, tlsOut.Required)
	assert.Equal(t, 1, *tlsOut.MinProperties)
	assert.True(t, out.Properties["old"].Deprecated)
}

func TestFromOptions_Wildcard(t *testing.T) {
	s := spark.MustSchema(spark.Opt(spark.Wildcard, spark.OptionSpec{Type: spark.IntegerType}))
	out := jsonschema.FromOptions(s)
	assert.Empty(t, out.Properties)
	assert.Equal(t, &jsonschema.Schema{Type: "integer"}, out.AdditionalProperties)
}

func TestFromType(t *testing.T) {
	cases := map[string]struct {
		in   spark.Type
		want *jsonschema.Schema
	}{
		"atom":    {spark.AtomType, &jsonschema.Schema{Type: "string", Pattern: "^:.+"}},
		"float":   {spark.FloatType, &jsonschema.Schema{Type: "number"}},
		"literal": {spark.Literal{Value: spark.Atom("on")}, &jsonschema.Schema{Const: ":on"}},
		"list":    {spark.ListOf{Elem: spark.BooleanType}, &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "boolean"}}},
		"and":     {spark.And{spark.IntegerType}, &jsonschema.Schema{AllOf: []*jsonschema.Schema{{Type: "integer"}}}},
		"fun":     {spark.FunctionArity{Arity: 2}, &jsonschema.Schema{Description: "function of arity 2"}},
		"nil":     {nil, &jsonschema.Schema{}},
		"map_of": {spark.MapKV{Key: spark.AtomType, Value: spark.IntegerType}, &jsonschema.Schema{
			Type: "object", PropertyNames: &jsonschema.Schema{Type: "string"}, AdditionalProperties: &jsonschema.Schema{Type: "integer"},
		}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, jsonschema.FromType(tc.in))
		})
	}

	tuple := jsonschema.FromType(spark.TupleOf{spark.AtomType, spark.IntegerType})
	assert.Len(t, tuple.PrefixItems, 2)
	assert.Equal(t, 2, *tuple.MinItems)
	assert.Equal(t, 2, *tuple.MaxItems)

	b := jsonschema.FromType(spark.Behaviour{Behaviour: "Cache", Builtins: map[spark.Atom]spark.ModuleRef{
		"memory": {Module: "Cache.Memory"}, "disk": {Module: "Cache.Disk"},
	}})
	require.Len(t, b.AnyOf, 3)
	assert.Equal(t, []any{":disk", ":memory"}, b.AnyOf[2].Enum)
}

func TestMarshal(t *testing.T) {
	s := spark.MustSchema(spark.Opt("debug", spark.OptionSpec{Type: spark.BooleanType, Default: false, HasDefault: true}))
	data, err := jsonschema.Marshal(jsonschema.FromOptions(s))
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, j.Unmarshal(data, &back))
	props := back["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "boolean", "default": false}, props["debug"])
	assert.Equal(t, false, back["additionalProperties"])
}
