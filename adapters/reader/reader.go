package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"colstats/adapters/datareadiness/coercer"
	"colstats/domain/tabular"
	"colstats/internal"
	apperrors "colstats/internal/errors"
)

const (
	fileTypeCSV  = "csv"
	fileTypeXLSX = "xlsx"

	// rows read between context checks
	checkEvery = 4096
)

// ReaderConfig holds parsing settings shared by both file types
type ReaderConfig struct {
	Delimiter rune   // csv field separator
	Sheet     string // xlsx sheet name, empty = first sheet
	Coercion  coercer.CoercionConfig
}

// DefaultReaderConfig returns comma-separated parsing with a 100-row inference sample
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Delimiter: ',',
		Coercion:  coercer.DefaultCoercionConfig(),
	}
}

// RowSource yields the header and then raw data rows, each as wide as the header.
// Next returns io.EOF after the last row.
type RowSource interface {
	Header() []string
	Next() ([]string, error)
	Close() error
}

// DataReader handles reading delimited text and Excel files
type DataReader struct {
	filePath string
	fileType string
	config   ReaderConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string, config ReaderConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := fileTypeCSV
	switch ext {
	case ".xlsx", ".xlsm":
		fileType = fileTypeXLSX
	case ".tsv":
		if config.Delimiter == ',' || config.Delimiter == 0 {
			config.Delimiter = '\t'
		}
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.Coercion),
		logger:   logger,
	}
}

// Path returns the file this reader reads
func (r *DataReader) Path() string {
	return r.filePath
}

// Coercer returns the cell coercer configured for this reader
func (r *DataReader) Coercer() *coercer.TypeCoercer {
	return r.coercer
}

// OpenRows opens the file for streaming. The caller must Close the source.
func (r *DataReader) OpenRows(ctx context.Context) (RowSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(r.filePath)
	if err != nil {
		return nil, apperrors.FileAccess(r.filePath, err)
	}
	if info.IsDir() {
		return nil, apperrors.FileAccess(r.filePath, errors.New("is a directory"))
	}

	switch r.fileType {
	case fileTypeXLSX:
		return openXLSXRows(r.filePath, r.config.Sheet)
	default:
		return openCSVRows(r.filePath, r.config.Delimiter)
	}
}

// ReadTable loads the whole file and infers each column's type from the
// first InferSchemaLength data rows
func (r *DataReader) ReadTable(ctx context.Context) (*tabular.Table, error) {
	startTime := time.Now()
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	src, err := r.OpenRows(ctx)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	header := src.Header()
	raw := make([][]string, len(header))
	rowCount := 0
	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for j, cell := range row {
			raw[j] = append(raw[j], cell)
		}
		rowCount++
		if rowCount%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	readTime := time.Since(startTime)

	columns := make([]*tabular.Column, len(header))
	for j, name := range header {
		cells := raw[j]
		if cells == nil {
			cells = []string{}
		}
		columns[j] = r.coercer.BuildColumn(name, cells)
	}

	table, err := tabular.NewTable(rowCount, columns...)
	if err != nil {
		return nil, apperrors.Malformed(r.filePath, err.Error())
	}

	r.logger.Info("[DataReader] %s file read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(readTime.Nanoseconds())/1e6, len(header), rowCount)
	return table, nil
}

// checkHeader rejects headers that cannot name a table's columns
func checkHeader(path string, header []string) error {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return apperrors.Malformed(path, fmt.Sprintf("duplicate column name %q", name))
		}
		seen[name] = true
	}
	return nil
}
