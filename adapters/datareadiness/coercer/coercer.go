package coercer

import (
	"strconv"
	"strings"

	"colstats/domain/tabular"
)

// TypeCoercer infers column types from a bounded sample and parses raw cells
// under a declared type. Both execution strategies share it so that they see
// identical values.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the inference sample and cell normalization
type CoercionConfig struct {
	InferSchemaLength int  `json:"infer_schema_length"` // data rows sampled, 0 = all rows
	TrimSpace         bool `json:"trim_space"`          // trim cells before parsing
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		InferSchemaLength: 100,
		TrimSpace:         true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.InferSchemaLength < 0 {
		config.InferSchemaLength = 0
	}
	return &TypeCoercer{config: config}
}

// SampleSize returns how many data rows inference inspects, 0 meaning all
func (c *TypeCoercer) SampleSize() int {
	return c.config.InferSchemaLength
}

// InSample reports whether data row i (0-based) belongs to the inference sample
func (c *TypeCoercer) InSample(i int) bool {
	return c.config.InferSchemaLength == 0 || i < c.config.InferSchemaLength
}

// Normalize applies the configured cell normalization
func (c *TypeCoercer) Normalize(raw string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(raw)
	}
	return raw
}

// AnalyzeTypeDistribution counts how many sampled cells parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(sample []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(sample)}

	for _, raw := range sample {
		cell := c.Normalize(raw)
		if cell == "" {
			continue
		}
		analysis.ValidCount++

		if _, ok := parseInteger(cell); ok {
			analysis.IntegerCount++
		}
		if _, ok := ParseNumber(cell); ok {
			analysis.FloatCount++
		}
		if _, ok := parseBoolean(cell); ok {
			analysis.BooleanCount++
		}
	}

	analysis.RecommendedType = determineRecommendedType(analysis)
	return analysis
}

// InferType returns the declared type for a column given its sampled cells.
// A type is chosen only when every present sampled cell parses as it.
func (c *TypeCoercer) InferType(sample []string) tabular.ColumnType {
	return c.AnalyzeTypeDistribution(sample).RecommendedType
}

// ParseCell converts a raw cell under the column's declared type. An empty
// cell is missing. A cell that does not fit the declared type is kept as a
// string so that numeric coercion can reject it later with its position.
func (c *TypeCoercer) ParseCell(raw string, declared tabular.ColumnType) tabular.Value {
	cell := c.Normalize(raw)
	if cell == "" {
		return tabular.Missing()
	}

	switch declared {
	case tabular.TypeInteger:
		if i, ok := parseInteger(cell); ok {
			return tabular.Int(i)
		}
	case tabular.TypeFloat:
		if f, ok := ParseNumber(cell); ok {
			return tabular.Float(f)
		}
	case tabular.TypeBoolean:
		if b, ok := parseBoolean(cell); ok {
			return tabular.Bool(b)
		}
	}
	return tabular.String(cell)
}

// BuildColumn infers the type of raw from its sample prefix and parses every cell
func (c *TypeCoercer) BuildColumn(name string, raw []string) *tabular.Column {
	sample := raw
	if n := c.config.InferSchemaLength; n > 0 && n < len(raw) {
		sample = raw[:n]
	}
	colType := c.InferType(sample)

	values := make([]tabular.Value, len(raw))
	for i, cell := range raw {
		values[i] = c.ParseCell(cell, colType)
	}
	return &tabular.Column{Name: name, Type: colType, Values: values}
}

// ParseNumber parses decimal or scientific notation into a float64.
// "NaN" and "Inf" are accepted as their IEEE-754 values.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseInteger(s string) (int64, bool) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// determineRecommendedType picks the narrowest type every present value fits
func determineRecommendedType(analysis TypeAnalysis) tabular.ColumnType {
	switch {
	case analysis.ValidCount == 0:
		return tabular.TypeNull
	case analysis.IntegerCount == analysis.ValidCount:
		return tabular.TypeInteger
	case analysis.FloatCount == analysis.ValidCount:
		return tabular.TypeFloat
	case analysis.BooleanCount == analysis.ValidCount:
		return tabular.TypeBoolean
	}
	return tabular.TypeString
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	IntegerCount    int                `json:"integer_count"`
	FloatCount      int                `json:"float_count"`
	BooleanCount    int                `json:"boolean_count"`
	RecommendedType tabular.ColumnType `json:"recommended_type"`
}
