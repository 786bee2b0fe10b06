package dsl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spark "github.com/ash-project/spark-sub001"
	"github.com/ash-project/spark-sub001/dsl"
)

func TestOptions_BuildKeepsDeclarationOrder(t *testing.T) {
	s := dsl.Options().
		Field("name", dsl.String()).Required().Doc("service name").
		Field("port", dsl.PosInteger()).Default(4000).
		Field("debug", dsl.Bool()).Deprecated("use :log_level").
		Field("label", dsl.String()).Default(nil).TypeDoc("a label").
		MustBuild()

	assert.Equal(t, []spark.Atom{"name", "port", "debug", "label"}, s.Keys())
	assert.Equal(t, []spark.Atom{"name"}, s.Required())

	name, ok := s.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "service name", name.Doc)
	assert.Equal(t, spark.StringType, name.Type)

	port, _ := s.Lookup("port")
	assert.True(t, port.HasDefault)
	assert.Equal(t, 4000, port.Default)

	debug, _ := s.Lookup("debug")
	assert.Equal(t, "use :log_level", debug.Deprecated)

	label, _ := s.Lookup("label")
	assert.True(t, label.HasDefault)
	assert.Nil(t, label.Default)
	assert.Equal(t, "a label", label.TypeDoc)
}

func TestOptions_RedeclareReplacesInPlace(t *testing.T) {
	s := dsl.Options().
		Field("a", dsl.String()).Required().
		Field("b", dsl.Integer()).
		Field("a", dsl.Integer()).
		MustBuild()
	assert.Equal(t, []spark.Atom{"a", "b"}, s.Keys())
	a, _ := s.Lookup("a")
	assert.Equal(t, spark.IntegerType, a.Type)
	assert.False(t, a.Required)
}

func TestOptions_RequireAndOptional(t *testing.T) {
	s := dsl.Options().
		Field("a", dsl.Any()).
		Field("b", dsl.Any()).Required().Optional().
		Require("a", "missing").
		MustBuild()
	assert.Equal(t, []spark.Atom{"a"}, s.Required())
}

func TestOptions_WildcardAndKeys(t *testing.T) {
	conn := dsl.Options().Field("host", dsl.String()).Required().MustBuild()
	s, err := dsl.Options().
		Field("conn", spark.KeywordListType).Keys(conn).
		Wildcard(dsl.Integer()).
		Build()
	require.NoError(t, err)
	_, ok := s.Wildcard()
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())

	res, err := spark.Validate(s, spark.Keyword{
		{Key: "conn", Value: spark.Keyword{{Key: "host", Value: "db"}}},
		{Key: "retries", Value: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Value("retries"))

	_, err = dsl.Options().Field("x", dsl.String()).Keys(conn).Build()
	assert.True(t, errors.Is(err, spark.ErrInvalidSchema))
	assert.Panics(t, func() { dsl.Options().Field("", dsl.String()).MustBuild() })
}

func TestTypeShorthands(t *testing.T) {
	inner := dsl.Options().Field("n", dsl.Integer()).MustBuild()
	cases := []struct {
		typ  spark.Type
		ok   any
		fail any
	}{
		{dsl.Literal(spark.Atom("on")), spark.Atom("on"), spark.Atom("off")},
		{dsl.OneOf(1, 2), 2, 3},
		{dsl.In("a", "b"), "a", "c"},
		{dsl.Range(1, 3), 3, 4},
		{dsl.Or(dsl.Integer(), dsl.Atom()), spark.Atom("x"), "x"},
		{dsl.And(dsl.Integer(), dsl.Range(0, 9)), 5, 10},
		{dsl.Tuple(dsl.Atom(), dsl.Float()), []any{spark.Atom("a"), 1.5}, []any{spark.Atom("a")}},
		{dsl.ListOf(dsl.String()), []string{"a"}, []any{1}},
		{dsl.WrapList(dsl.Integer()), 1, "1"},
		{dsl.Keyword(inner), spark.Keyword{{Key: "n", Value: 1}}, spark.Keyword{{Key: "m", Value: 1}}},
		{dsl.NonEmptyKeyword(inner), spark.Keyword{{Key: "n", Value: 1}}, spark.Keyword{}},
		{dsl.Map(inner), map[string]any{"n": 1}, map[string]any{"n": "1"}},
		{dsl.MapOf(dsl.String(), dsl.Integer()), map[string]int{"a": 1}, map[int]int{1: 1}},
		{dsl.Fun(1), func(int) {}, func() {}},
		{dsl.Timeout(), spark.Infinity, -1},
		{dsl.NonNegInteger(), 0, -1},
		{dsl.Module(), spark.Atom("Mod"), "Mod"},
		{dsl.Custom("even", func(v any, _ ...any) (any, error) {
			if v.(int)%2 != 0 {
				return nil, errors.New("odd")
			}
			return v, nil
		}), 2, 3},
	}
	for _, c := range cases {
		_, err := spark.Evaluate(c.typ, c.ok)
		assert.NoError(t, err, "%s accepts %v", c.typ, c.ok)
		_, err = spark.Evaluate(c.typ, c.fail)
		assert.Error(t, err, "%s rejects %v", c.typ, c.fail)
	}
}
