package api

import (
	"math"
	"strconv"

	"colstats/app"
	"colstats/domain/tabular"
)

// Aggregate is a statistic as sent over JSON. Absent values encode as null;
// NaN and the infinities, which JSON numbers cannot hold, encode as strings.
type Aggregate struct {
	value *float64
}

func (a Aggregate) MarshalJSON() ([]byte, error) {
	if a.value == nil {
		return []byte("null"), nil
	}
	v := *a.value
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// StatsResponse is the body of GET /api/stats
type StatsResponse struct {
	RunID    string    `json:"run_id"`
	Path     string    `json:"path"`
	Column   string    `json:"column"`
	Strategy string    `json:"strategy"`
	Count    int       `json:"count"`
	Min      Aggregate `json:"min"`
	Max      Aggregate `json:"max"`
	Sum      Aggregate `json:"sum"`
	Mean     Aggregate `json:"mean"`
}

func newStatsResponse(path string, result *app.Result) StatsResponse {
	return StatsResponse{
		RunID:    result.RunID.String(),
		Path:     path,
		Column:   result.Column,
		Strategy: string(result.Strategy),
		Count:    result.Stats.Count,
		Min:      Aggregate{result.Stats.Min},
		Max:      Aggregate{result.Stats.Max},
		Sum:      Aggregate{result.Stats.Sum},
		Mean:     Aggregate{result.Stats.Mean},
	}
}

// SchemaResponse is the body of GET /api/schema
type SchemaResponse struct {
	Path     string          `json:"path"`
	RowCount int             `json:"row_count"`
	Fields   []tabular.Field `json:"fields"`
}

// ErrorResponse carries the error code and, where known, the failing stage
// and the details needed to correct the request
type ErrorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Stage     string   `json:"stage,omitempty"`
	Available []string `json:"available,omitempty"`
	Column    string   `json:"column,omitempty"`
	Row       int      `json:"row,omitempty"`
	Value     *string  `json:"value,omitempty"`
}
