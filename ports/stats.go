package ports

import (
	"context"

	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
)

// ReadOptions overrides loader settings for a single call.
// A nil field keeps the configured value.
type ReadOptions struct {
	InferSchemaLength *int
}

// TableLoader materializes a whole file as a typed table (eager strategy)
type TableLoader interface {
	Load(ctx context.Context, path string, opts ReadOptions) (*tabular.Table, error)
}

// ColumnStatsExecutor computes statistics for one column without
// materializing the table (deferred strategy). Returned errors carry the
// failing stage and an error code.
type ColumnStatsExecutor interface {
	Execute(ctx context.Context, path, column string, opts ReadOptions) (domainStats.Statistics, error)
}
