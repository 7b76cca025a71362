package engine

import (
	"math"

	domainStats "colstats/domain/stats"
)

// Accumulator reduces a stream of cells in one pass. Its results match
// StatsEngine.Aggregate on the same values in the same order.
type Accumulator struct {
	rows    int
	present int
	min     float64
	max     float64
	sum     float64
	sawNaN  bool
}

// NewAccumulator returns an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// AddMissing counts a missing row
func (a *Accumulator) AddMissing() {
	a.rows++
}

// Add folds a present value into the aggregates
func (a *Accumulator) Add(v float64) {
	a.rows++
	if math.IsNaN(v) {
		a.sawNaN = true
	}
	if a.present == 0 {
		a.min, a.max = v, v
	} else {
		if v < a.min {
			a.min = v
		}
		if v > a.max {
			a.max = v
		}
	}
	a.sum += v
	a.present++
}

// Rows returns the number of rows seen so far
func (a *Accumulator) Rows() int {
	return a.rows
}

// Result returns the statistics of everything added so far
func (a *Accumulator) Result() domainStats.Statistics {
	result := domainStats.Statistics{Count: a.rows}
	if a.present == 0 {
		return result
	}
	if a.sawNaN {
		return nanStatistics(a.rows)
	}
	result.Min = domainStats.Present(a.min)
	result.Max = domainStats.Present(a.max)
	result.Sum = domainStats.Present(a.sum)
	result.Mean = domainStats.Present(a.sum / float64(a.present))
	return result
}
