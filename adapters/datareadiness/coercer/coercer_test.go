package coercer

import (
	"math"
	"testing"

	"colstats/domain/tabular"

	"github.com/stretchr/testify/assert"
)

func TestInferType(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name     string
		sample   []string
		expected tabular.ColumnType
	}{
		{"integers", []string{"1", "2", "-3"}, tabular.TypeInteger},
		{"integers with blanks", []string{"1", "", " 2 "}, tabular.TypeInteger},
		{"mixed integers and floats", []string{"1", "2.5", "1e3"}, tabular.TypeFloat},
		{"integer overflow widens to float", []string{"1", "99999999999999999999"}, tabular.TypeFloat},
		{"nan is a float", []string{"1.5", "NaN"}, tabular.TypeFloat},
		{"booleans", []string{"true", "False", "TRUE"}, tabular.TypeBoolean},
		{"one bad value makes string", []string{"10.5", "abc"}, tabular.TypeString},
		{"all blank", []string{"", "  "}, tabular.TypeNull},
		{"no rows", nil, tabular.TypeNull},
		{"currency is not numeric", []string{"$45", "$50"}, tabular.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.InferType(tt.sample))
		})
	}
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())
	analysis := c.AnalyzeTypeDistribution([]string{"1", "2.5", "", "true"})

	assert.Equal(t, 4, analysis.TotalCount)
	assert.Equal(t, 3, analysis.ValidCount)
	assert.Equal(t, 1, analysis.IntegerCount)
	assert.Equal(t, 2, analysis.FloatCount)
	assert.Equal(t, 1, analysis.BooleanCount)
	assert.Equal(t, tabular.TypeString, analysis.RecommendedType)
}

func TestParseCell(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.True(t, c.ParseCell("", tabular.TypeInteger).IsMissing())
	assert.True(t, c.ParseCell("   ", tabular.TypeString).IsMissing())

	v := c.ParseCell("42", tabular.TypeInteger)
	assert.Equal(t, tabular.KindInteger, v.Kind())
	assert.Equal(t, int64(42), v.AsInt())

	v = c.ParseCell(" 10.5 ", tabular.TypeFloat)
	assert.Equal(t, tabular.KindFloat, v.Kind())
	assert.Equal(t, 10.5, v.AsFloat())

	v = c.ParseCell("NaN", tabular.TypeFloat)
	assert.True(t, math.IsNaN(v.AsFloat()))

	v = c.ParseCell("false", tabular.TypeBoolean)
	assert.Equal(t, tabular.KindBoolean, v.Kind())
	assert.False(t, v.AsBool())

	// values that violate the declared type are kept, not dropped
	v = c.ParseCell("abc", tabular.TypeInteger)
	assert.Equal(t, tabular.KindString, v.Kind())
	assert.Equal(t, "abc", v.AsString())

	v = c.ParseCell("2.5", tabular.TypeInteger)
	assert.Equal(t, tabular.KindString, v.Kind())

	v = c.ParseCell("7", tabular.TypeNull)
	assert.Equal(t, tabular.KindString, v.Kind())
}

func TestBuildColumnInfersFromBoundedSample(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{InferSchemaLength: 2, TrimSpace: true})

	col := c.BuildColumn("amount", []string{"10.5", "", "abc"})

	assert.Equal(t, tabular.TypeFloat, col.Type)
	assert.Equal(t, 3, col.Len())
	assert.Equal(t, tabular.KindFloat, col.Values[0].Kind())
	assert.True(t, col.Values[1].IsMissing())
	assert.Equal(t, tabular.KindString, col.Values[2].Kind())
}

func TestBuildColumnZeroSampleLengthScansAllRows(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{InferSchemaLength: 0, TrimSpace: true})

	col := c.BuildColumn("amount", []string{"10.5", "", "abc"})

	assert.Equal(t, tabular.TypeString, col.Type)
	assert.True(t, c.InSample(1000))
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber(" 1e-3 ")
	assert.True(t, ok)
	assert.Equal(t, 0.001, f)

	_, ok = ParseNumber("12abc")
	assert.False(t, ok)

	f, ok = ParseNumber("-Inf")
	assert.True(t, ok)
	assert.True(t, math.IsInf(f, -1))
}
