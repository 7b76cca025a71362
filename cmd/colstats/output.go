package main

import (
	"fmt"
	"io"
	"math"

	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
)

// formatAggregate renders a statistic with four decimals, or N/A when absent
func formatAggregate(v *float64) string {
	if v == nil {
		return "N/A"
	}
	switch {
	case math.IsNaN(*v):
		return "NaN"
	case math.IsInf(*v, 1):
		return "inf"
	case math.IsInf(*v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.4f", *v)
}

func printStatistics(w io.Writer, column string, s domainStats.Statistics) {
	fmt.Fprintf(w, "--- Statistics for '%s' ---\n", column)
	fmt.Fprintf(w, "Count: %d\n", s.Count)
	fmt.Fprintf(w, "Min:   %s\n", formatAggregate(s.Min))
	fmt.Fprintf(w, "Max:   %s\n", formatAggregate(s.Max))
	fmt.Fprintf(w, "Sum:   %s\n", formatAggregate(s.Sum))
	fmt.Fprintf(w, "Mean:  %s\n", formatAggregate(s.Mean))
}

func printSchema(w io.Writer, path string, schema tabular.Schema) {
	fmt.Fprintf(w, "--- Schema of '%s' (%d rows) ---\n", path, schema.RowCount)
	width := 0
	for _, field := range schema.Fields {
		if len(field.Name) > width {
			width = len(field.Name)
		}
	}
	for _, field := range schema.Fields {
		fmt.Fprintf(w, "%-*s  %s\n", width, field.Name, field.Type)
	}
}
