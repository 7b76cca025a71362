package app

import (
	"context"
	"time"

	"colstats/adapters/stats/engine"
	"colstats/domain/core"
	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
	"colstats/internal"
	"colstats/internal/errors"
	"colstats/ports"
)

// Request names the file and column to summarize. Empty Column and Strategy
// fall back to the service defaults; a nil InferSchemaLength keeps the
// loader's configured sample size.
type Request struct {
	Path              string
	Column            string
	Strategy          string
	InferSchemaLength *int
}

// Result is one completed computation
type Result struct {
	RunID    core.RunID             `json:"run_id"`
	Path     string                 `json:"path"`
	Column   string                 `json:"column"`
	Strategy domainStats.Strategy   `json:"strategy"`
	Stats    domainStats.Statistics `json:"stats"`
	Duration time.Duration          `json:"-"`
}

// ServiceDefaults are applied to requests that leave a field empty
type ServiceDefaults struct {
	Column   string
	Strategy domainStats.Strategy
}

// ColumnStatsService runs load, resolve, coerce and aggregate for one column.
// Every failure is returned as a single error tagged with its stage and code.
type ColumnStatsService struct {
	loader   ports.TableLoader
	executor ports.ColumnStatsExecutor
	engine   *engine.StatsEngine
	defaults ServiceDefaults
	logger   *internal.Logger
}

// NewColumnStatsService creates the orchestration service
func NewColumnStatsService(
	loader ports.TableLoader,
	executor ports.ColumnStatsExecutor,
	statsEngine *engine.StatsEngine,
	defaults ServiceDefaults,
	logger *internal.Logger,
) *ColumnStatsService {
	if defaults.Strategy == "" {
		defaults.Strategy = domainStats.StrategyLazy
	}
	return &ColumnStatsService{
		loader:   loader,
		executor: executor,
		engine:   statsEngine,
		defaults: defaults,
		logger:   logger,
	}
}

// Compute runs the pipeline for req under the requested strategy.
// Both strategies return identical statistics for the same input.
func (s *ColumnStatsService) Compute(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()

	if req.Path == "" {
		return nil, errors.AtStage(errors.StageLoad, errors.InvalidInput("file path must not be empty"))
	}

	column := req.Column
	if column == "" {
		column = s.defaults.Column
	}

	strategy := s.defaults.Strategy
	if req.Strategy != "" {
		parsed, err := domainStats.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		strategy = parsed
	}

	runID := core.NewRunID()
	s.logger.Debug("[ColumnStatsService] run %s: %s strategy, column %q of %s", runID, strategy, column, req.Path)

	opts := ports.ReadOptions{InferSchemaLength: req.InferSchemaLength}

	var (
		stats domainStats.Statistics
		err   error
	)
	switch strategy {
	case domainStats.StrategyEager:
		stats, err = s.computeEager(ctx, req.Path, column, opts)
	default:
		stats, err = s.executor.Execute(ctx, req.Path, column, opts)
	}
	if err != nil {
		s.logger.Debug("[ColumnStatsService] run %s failed: %v", runID, err)
		return nil, err
	}

	result := &Result{
		RunID:    runID,
		Path:     req.Path,
		Column:   column,
		Strategy: strategy,
		Stats:    stats,
		Duration: time.Since(startTime),
	}
	s.logger.Info("[ColumnStatsService] run %s completed in %.2fms (%d rows)",
		runID, float64(result.Duration.Nanoseconds())/1e6, stats.Count)
	return result, nil
}

func (s *ColumnStatsService) computeEager(ctx context.Context, path, column string, opts ports.ReadOptions) (domainStats.Statistics, error) {
	table, err := s.loader.Load(ctx, path, opts)
	if err != nil {
		return domainStats.Statistics{}, errors.AtStage(errors.StageLoad, err)
	}

	col, err := s.engine.Resolve(table, column)
	if err != nil {
		return domainStats.Statistics{}, errors.AtStage(errors.StageResolve, err)
	}

	numeric, err := s.engine.Coerce(col)
	if err != nil {
		return domainStats.Statistics{}, errors.AtStage(errors.StageCoerce, errors.WithCode(errors.CodeTypeCoercion, err))
	}

	if err := ctx.Err(); err != nil {
		return domainStats.Statistics{}, errors.AtStage(errors.StageAggregate, err)
	}
	stats, err := s.engine.Aggregate(numeric)
	if err != nil {
		return domainStats.Statistics{}, errors.AtStage(errors.StageAggregate, err)
	}
	return stats, nil
}

// DescribeSchema loads path and reports each column's inferred type
func (s *ColumnStatsService) DescribeSchema(ctx context.Context, path string, opts ports.ReadOptions) (tabular.Schema, error) {
	if path == "" {
		return tabular.Schema{}, errors.AtStage(errors.StageLoad, errors.InvalidInput("file path must not be empty"))
	}
	table, err := s.loader.Load(ctx, path, opts)
	if err != nil {
		return tabular.Schema{}, errors.AtStage(errors.StageLoad, err)
	}
	return table.Schema(), nil
}
