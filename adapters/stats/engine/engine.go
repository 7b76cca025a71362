package engine

import (
	"math"

	domainStats "colstats/domain/stats"
	"colstats/internal"

	"github.com/montanaflynn/stats"
)

// StatsEngine coerces columns to float64 and reduces them to Statistics
type StatsEngine struct {
	logger *internal.Logger
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(logger *internal.Logger) *StatsEngine {
	return &StatsEngine{logger: logger}
}

// Aggregate reduces a materialized column. Count includes missing rows; the
// other aggregates cover present values only and are nil when there are none.
// Any NaN among the present values makes min, max, sum and mean NaN.
func (e *StatsEngine) Aggregate(col *domainStats.NumericColumn) (domainStats.Statistics, error) {
	result := domainStats.Statistics{Count: col.Len()}

	present := col.Present()
	if len(present) == 0 {
		return result, nil
	}

	if containsNaN(present) {
		return nanStatistics(result.Count), nil
	}

	min, err := stats.Min(present)
	if err != nil {
		return domainStats.Statistics{}, err
	}
	max, err := stats.Max(present)
	if err != nil {
		return domainStats.Statistics{}, err
	}
	sum, err := stats.Sum(present)
	if err != nil {
		return domainStats.Statistics{}, err
	}

	result.Min = domainStats.Present(min)
	result.Max = domainStats.Present(max)
	result.Sum = domainStats.Present(sum)
	result.Mean = domainStats.Present(sum / float64(len(present)))

	e.logger.Debug("[StatsEngine] %q: %d rows, %d present", col.Name, result.Count, len(present))
	return result, nil
}

func containsNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func nanStatistics(count int) domainStats.Statistics {
	nan := math.NaN()
	return domainStats.Statistics{
		Count: count,
		Min:   domainStats.Present(nan),
		Max:   domainStats.Present(nan),
		Sum:   domainStats.Present(nan),
		Mean:  domainStats.Present(nan),
	}
}
