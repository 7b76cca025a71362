package reader

import (
	"context"

	"colstats/domain/tabular"
	"colstats/internal"
	"colstats/ports"
)

// Loader implements ports.TableLoader with a fixed reader configuration
type Loader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewLoader creates a loader that reads every file with config
func NewLoader(config ReaderConfig, logger *internal.Logger) *Loader {
	return &Loader{config: config, logger: logger}
}

// Config returns the configuration with opts applied
func (l *Loader) Config(opts ports.ReadOptions) ReaderConfig {
	config := l.config
	if opts.InferSchemaLength != nil {
		config.Coercion.InferSchemaLength = *opts.InferSchemaLength
	}
	return config
}

func (l *Loader) Load(ctx context.Context, path string, opts ports.ReadOptions) (*tabular.Table, error) {
	return NewDataReader(path, l.Config(opts), l.logger).ReadTable(ctx)
}

var _ ports.TableLoader = (*Loader)(nil)
