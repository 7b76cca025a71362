package plan

import (
	"context"
	"fmt"
	"time"

	"colstats/adapters/reader"
	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
	"colstats/internal"
	"colstats/internal/errors"
	"colstats/ports"
)

// ColumnStatsPlan is the deferred form of a single-column statistics query:
// Scan(path, column) -> Cast(float64) -> Aggregate(count, min, max, sum, mean).
// Building a plan reads nothing; Execute runs it in one streaming pass.
type ColumnStatsPlan struct {
	Path      string
	Column    string
	Reader    reader.ReaderConfig
	BatchSize int

	logger *internal.Logger
}

func (p *ColumnStatsPlan) String() string {
	return fmt.Sprintf("Aggregate(count, min, max, sum, mean) <- Cast(%q AS float64) <- Scan(%q, columns=[%q])",
		p.Column, p.Path, p.Column)
}

// Planner builds plans that share one reader configuration
type Planner struct {
	config    reader.ReaderConfig
	batchSize int
	logger    *internal.Logger
}

// NewPlanner creates a planner; batchSize <= 0 selects DefaultBatchSize
func NewPlanner(config reader.ReaderConfig, batchSize int, logger *internal.Logger) *Planner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Planner{config: config, batchSize: batchSize, logger: logger}
}

// Plan validates the query and returns an unexecuted plan
func (p *Planner) Plan(path, column string) (*ColumnStatsPlan, error) {
	if path == "" {
		return nil, errors.AtStage(errors.StageLoad, errors.InvalidInput("file path must not be empty"))
	}
	if column == "" {
		return nil, errors.AtStage(errors.StageResolve,
			errors.WithCode(errors.CodeInvalidInput, tabular.ErrEmptyColumnName))
	}
	return &ColumnStatsPlan{
		Path:      path,
		Column:    column,
		Reader:    p.config,
		BatchSize: p.batchSize,
		logger:    p.logger,
	}, nil
}

// Execute plans and runs a query in one call, applying opts to the reader configuration
func (p *Planner) Execute(ctx context.Context, path, column string, opts ports.ReadOptions) (domainStats.Statistics, error) {
	plan, err := p.Plan(path, column)
	if err != nil {
		return domainStats.Statistics{}, err
	}
	if opts.InferSchemaLength != nil {
		plan.Reader.Coercion.InferSchemaLength = *opts.InferSchemaLength
	}
	return plan.Execute(ctx)
}

var _ ports.ColumnStatsExecutor = (*Planner)(nil)

// Execute streams the file through the operator pipeline. Only the requested
// column is retained, and only until its batch has been aggregated.
func (p *ColumnStatsPlan) Execute(ctx context.Context) (domainStats.Statistics, error) {
	startTime := time.Now()
	p.logger.Debug("[Plan] executing %s", p)

	scan, err := OpenScan(ctx, reader.NewDataReader(p.Path, p.Reader, p.logger), p.Column, p.BatchSize)
	if err != nil {
		return domainStats.Statistics{}, err
	}
	p.logger.Debug("[Plan] column %q inferred as %s", p.Column, scan.Type())

	root := &CastOperator{Child: scan, Column: p.Column}
	defer root.Close()

	result, err := Aggregate(root)
	if err != nil {
		return domainStats.Statistics{}, errors.AtStage(errors.StageAggregate, err)
	}

	p.logger.Info("[Plan] %q aggregated in %.2fms (%d rows)",
		p.Column, float64(time.Since(startTime).Nanoseconds())/1e6, result.Count)
	return result, nil
}
