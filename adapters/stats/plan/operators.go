package plan

import (
	"context"
	"io"

	"colstats/adapters/datareadiness/coercer"
	"colstats/adapters/reader"
	"colstats/adapters/stats/engine"
	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
	"colstats/internal/errors"
)

// DefaultBatchSize is the number of rows each operator hands to its parent
const DefaultBatchSize = 1024

// Batch is a run of consecutive rows of the projected column.
// Numbers and Valid are filled by CastOperator.
type Batch struct {
	Offset  int // 0-based data row of Values[0]
	Values  []tabular.Value
	Numbers []float64
	Valid   []bool
}

// Len returns the number of rows in the batch
func (b *Batch) Len() int {
	return len(b.Values)
}

// Operator yields batches until it returns a nil batch
type Operator interface {
	Close()
	NextBatch() (*Batch, error)
}

// ScanOperator reads one column of a file. It buffers the inference sample
// to fix the column type, then streams the rest without keeping it.
type ScanOperator struct {
	ctx       context.Context
	src       reader.RowSource
	coercer   *coercer.TypeCoercer
	index     int
	colType   tabular.ColumnType
	pending   []string
	offset    int
	batchSize int
	exhausted bool
}

// OpenScan opens the file, resolves column against its header and reads the
// inference sample. Failures are tagged with the load or resolve stage.
func OpenScan(ctx context.Context, r *reader.DataReader, column string, batchSize int) (*ScanOperator, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	src, err := r.OpenRows(ctx)
	if err != nil {
		return nil, errors.AtStage(errors.StageLoad, err)
	}

	index, err := tabular.ResolveIndex(src.Header(), column)
	if err != nil {
		src.Close()
		return nil, errors.AtStage(errors.StageResolve, engine.ResolveError(err))
	}

	op := &ScanOperator{
		ctx:       ctx,
		src:       src,
		coercer:   r.Coercer(),
		index:     index,
		batchSize: batchSize,
	}
	if err := op.readSample(); err != nil {
		op.Close()
		return nil, errors.AtStage(errors.StageLoad, err)
	}
	op.colType = op.coercer.InferType(op.pending)
	return op, nil
}

func (op *ScanOperator) readSample() error {
	for op.coercer.InSample(len(op.pending)) {
		cell, err := op.nextCell()
		if err == io.EOF {
			op.exhausted = true
			return nil
		}
		if err != nil {
			return err
		}
		op.pending = append(op.pending, cell)
		if len(op.pending)%op.batchSize == 0 {
			if err := op.ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (op *ScanOperator) nextCell() (string, error) {
	row, err := op.src.Next()
	if err != nil {
		return "", err
	}
	return row[op.index], nil
}

// Type returns the column type inferred from the sample
func (op *ScanOperator) Type() tabular.ColumnType {
	return op.colType
}

func (op *ScanOperator) Close() {
	if op.src != nil {
		op.src.Close()
		op.src = nil
	}
}

func (op *ScanOperator) NextBatch() (*Batch, error) {
	if err := op.ctx.Err(); err != nil {
		return nil, err
	}

	batch := &Batch{Offset: op.offset, Values: make([]tabular.Value, 0, op.batchSize)}

	for len(op.pending) > 0 && batch.Len() < op.batchSize {
		batch.Values = append(batch.Values, op.coercer.ParseCell(op.pending[0], op.colType))
		op.pending = op.pending[1:]
	}
	for !op.exhausted && batch.Len() < op.batchSize {
		cell, err := op.nextCell()
		if err == io.EOF {
			op.exhausted = true
			break
		}
		if err != nil {
			return nil, errors.AtStage(errors.StageLoad, err)
		}
		batch.Values = append(batch.Values, op.coercer.ParseCell(cell, op.colType))
	}

	if batch.Len() == 0 {
		return nil, nil
	}
	op.offset += batch.Len()
	return batch, nil
}

// CastOperator converts each batch to float64. The first value that is not
// numeric fails the whole pipeline.
type CastOperator struct {
	Child  Operator
	Column string
}

func (op *CastOperator) Close() {
	if op.Child != nil {
		op.Child.Close()
		op.Child = nil
	}
}

func (op *CastOperator) NextBatch() (*Batch, error) {
	batch, err := op.Child.NextBatch()
	if err != nil || batch == nil {
		return nil, err
	}

	batch.Numbers = make([]float64, batch.Len())
	batch.Valid = make([]bool, batch.Len())
	for i, v := range batch.Values {
		f, present, ok := engine.CoerceValue(v)
		if !ok {
			coercionErr := engine.NewCoercionError(op.Column, batch.Offset+i, v)
			return nil, errors.AtStage(errors.StageCoerce, errors.WithCode(errors.CodeTypeCoercion, coercionErr))
		}
		batch.Numbers[i] = f
		batch.Valid[i] = present
	}
	return batch, nil
}

// Aggregate drains op into a streaming accumulator
func Aggregate(op Operator) (domainStats.Statistics, error) {
	acc := engine.NewAccumulator()
	for {
		batch, err := op.NextBatch()
		if err != nil {
			return domainStats.Statistics{}, err
		}
		if batch == nil {
			break
		}
		for i, ok := range batch.Valid {
			if ok {
				acc.Add(batch.Numbers[i])
			} else {
				acc.AddMissing()
			}
		}
	}
	return acc.Result(), nil
}
