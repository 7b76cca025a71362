package main

import (
	"net"

	"colstats/adapters/datareadiness/coercer"
	"colstats/adapters/reader"
	"colstats/adapters/stats/engine"
	"colstats/adapters/stats/plan"
	"colstats/app"
	domainStats "colstats/domain/stats"
	"colstats/internal"
	"colstats/internal/api"
	"colstats/internal/config"
	"colstats/ports"

	"github.com/spf13/cobra"
)

// readerFlags are shared by every command that reads files
type readerFlags struct {
	inferSchemaLength int
	delimiter         string
	sheet             string
}

func (f *readerFlags) register(cmd *cobra.Command, cfg *config.Config) {
	delimiter := string(cfg.Data.Delimiter)
	if cfg.Data.Delimiter == '\t' {
		delimiter = `\t`
	}
	cmd.PersistentFlags().IntVar(&f.inferSchemaLength, "infer-schema-length", cfg.Data.InferSchemaLength,
		"Data rows sampled to infer column types (0 = all rows)")
	cmd.PersistentFlags().StringVar(&f.delimiter, "delimiter", delimiter, `Field delimiter for text files ("\t" for tab)`)
	cmd.PersistentFlags().StringVar(&f.sheet, "sheet", cfg.Data.Sheet, "Worksheet to read from .xlsx files (default: first sheet)")
}

func (f *readerFlags) readerConfig() (reader.ReaderConfig, error) {
	delimiter, err := config.ParseDelimiter(f.delimiter)
	if err != nil {
		return reader.ReaderConfig{}, err
	}
	if f.inferSchemaLength < 0 {
		return reader.ReaderConfig{}, config.ErrNegativeSampleSize
	}
	coercion := coercer.DefaultCoercionConfig()
	coercion.InferSchemaLength = f.inferSchemaLength
	return reader.ReaderConfig{
		Delimiter: delimiter,
		Sheet:     f.sheet,
		Coercion:  coercion,
	}, nil
}

func newService(cfg *config.Config, rc reader.ReaderConfig, logger *internal.Logger) *app.ColumnStatsService {
	return app.NewColumnStatsService(
		reader.NewLoader(rc, logger),
		plan.NewPlanner(rc, plan.DefaultBatchSize, logger),
		engine.NewStatsEngine(logger),
		app.ServiceDefaults{
			Column:   cfg.Data.DefaultColumn,
			Strategy: domainStats.Strategy(cfg.Data.Strategy),
		},
		logger,
	)
}

func newRootCmd(cfg *config.Config, logger *internal.Logger) *cobra.Command {
	var (
		flags      readerFlags
		filePath   string
		columnName string
		strategy   string
	)

	cmd := &cobra.Command{
		Use:   "colstats",
		Short: "Compute count, min, max, sum and mean of one column of a CSV or XLSX file",
		Long: `Compute summary statistics for a single numeric column.

Count includes missing cells; min, max, sum and mean cover present values
only and print N/A when the column has none.

Example: colstats -f payments.csv -c "Amount Received" --strategy eager`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.readerConfig()
			if err != nil {
				return err
			}
			result, err := newService(cfg, rc, logger).Compute(cmd.Context(), app.Request{
				Path:     filePath,
				Column:   columnName,
				Strategy: strategy,
			})
			if err != nil {
				return err
			}
			printStatistics(cmd.OutOrStdout(), result.Column, result.Stats)
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVarP(&filePath, "file-path", "f", "", "Path to the CSV or XLSX file")
	cmd.Flags().StringVarP(&columnName, "column-name", "c", cfg.Data.DefaultColumn, "Column to summarize")
	cmd.Flags().StringVar(&strategy, "strategy", cfg.Data.Strategy, "Execution strategy: lazy or eager")
	_ = cmd.MarkFlagRequired("file-path")

	cmd.AddCommand(
		newSchemaCmd(cfg, &flags, logger),
		newServeCmd(cfg, &flags, logger),
	)
	return cmd
}

func newSchemaCmd(cfg *config.Config, flags *readerFlags, logger *internal.Logger) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print each column's name and inferred type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.readerConfig()
			if err != nil {
				return err
			}
			schema, err := newService(cfg, rc, logger).DescribeSchema(cmd.Context(), filePath, ports.ReadOptions{})
			if err != nil {
				return err
			}
			printSchema(cmd.OutOrStdout(), filePath, schema)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file-path", "f", "", "Path to the CSV or XLSX file")
	_ = cmd.MarkFlagRequired("file-path")
	return cmd
}

func newServeCmd(cfg *config.Config, flags *readerFlags, logger *internal.Logger) *cobra.Command {
	var (
		port    string
		dataDir string
		maxJobs int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve statistics over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET /api/stats?path=FILE&column=NAME&strategy=lazy|eager
  GET /api/schema?path=FILE
  GET /healthz

Paths are resolved inside the data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.readerConfig()
			if err != nil {
				return err
			}
			handler, err := api.NewStatsHandler(newService(cfg, rc, logger), dataDir, int64(maxJobs), logger)
			if err != nil {
				return err
			}
			server := api.NewServer(handler, cfg.Server.GinMode, logger)
			return server.Run(cmd.Context(), net.JoinHostPort("", port))
		},
	}

	cmd.Flags().StringVar(&port, "port", cfg.Server.Port, "Port to listen on")
	cmd.Flags().StringVar(&dataDir, "data-dir", cfg.Server.DataDir, "Directory that request paths are resolved in")
	cmd.Flags().IntVar(&maxJobs, "max-jobs", cfg.Server.MaxConcurrentJobs, "Computations allowed to run at once")
	return cmd
}
