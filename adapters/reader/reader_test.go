package reader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"colstats/adapters/datareadiness/coercer"
	"colstats/domain/tabular"
	"colstats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeXLSX(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func readTable(t *testing.T, path string, config ReaderConfig) *tabular.Table {
	t.Helper()
	table, err := NewDataReader(path, config, nil).ReadTable(context.Background())
	require.NoError(t, err)
	return table
}

func TestReadTableInfersTypes(t *testing.T) {
	path := writeFile(t, "data.csv", "id,amount,label,flag,empty\n1,10.5,a,true,\n2,,b,false,\n3,7,c,TRUE,\n")

	table := readTable(t, path, DefaultReaderConfig())

	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, []tabular.Field{
		{Name: "id", Type: tabular.TypeInteger},
		{Name: "amount", Type: tabular.TypeFloat},
		{Name: "label", Type: tabular.TypeString},
		{Name: "flag", Type: tabular.TypeBoolean},
		{Name: "empty", Type: tabular.TypeNull},
	}, table.Schema().Fields)

	amount, err := table.Column("amount")
	require.NoError(t, err)
	assert.True(t, amount.Values[1].IsMissing())
	assert.Equal(t, 7.0, amount.Values[2].AsFloat())
}

func TestReadTableHeaderOnly(t *testing.T) {
	path := writeFile(t, "data.csv", "amount\n")

	table := readTable(t, path, DefaultReaderConfig())

	assert.Equal(t, 0, table.RowCount())
	col, err := table.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, tabular.TypeNull, col.Type)
	assert.Equal(t, 0, col.Len())
}

func TestReadTableKeepsValuesPastTheSample(t *testing.T) {
	path := writeFile(t, "data.csv", "id,amount\n1,10.5\n2,\n3,abc\n")
	config := DefaultReaderConfig()
	config.Coercion.InferSchemaLength = 2

	table := readTable(t, path, config)

	col, err := table.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, tabular.TypeFloat, col.Type)
	assert.Equal(t, tabular.KindString, col.Values[2].Kind())
	assert.Equal(t, "abc", col.Values[2].AsString())
}

func TestReadTableParsing(t *testing.T) {
	t.Run("custom delimiter and quotes", func(t *testing.T) {
		path := writeFile(t, "data.csv", "name;Amount Received\n\"Smith; J\";\"1,5\"\nLee;2\n")
		config := DefaultReaderConfig()
		config.Delimiter = ';'

		table := readTable(t, path, config)
		assert.Equal(t, []string{"name", "Amount Received"}, table.ColumnNames())
		col, err := table.Column("name")
		require.NoError(t, err)
		assert.Equal(t, "Smith; J", col.Values[0].AsString())
	})

	t.Run("tsv extension switches to tabs", func(t *testing.T) {
		path := writeFile(t, "data.tsv", "a\tb\n1\t2\n")
		table := readTable(t, path, DefaultReaderConfig())
		assert.Equal(t, []string{"a", "b"}, table.ColumnNames())
	})

	t.Run("byte order mark and padded header", func(t *testing.T) {
		path := writeFile(t, "data.csv", "\ufeff id , amount \n1,2\n")
		table := readTable(t, path, DefaultReaderConfig())
		assert.Equal(t, []string{"id", "amount"}, table.ColumnNames())
	})
}

func TestReadTableFailures(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		message string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			message: "nope.csv",
		},
		{
			name:    "directory",
			path:    func(t *testing.T) string { return t.TempDir() },
			message: "is a directory",
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeFile(t, "data.csv", "") },
			message: "missing header row",
		},
		{
			name:    "ragged row",
			path:    func(t *testing.T) string { return writeFile(t, "data.csv", "a,b\n1,2\n3\n") },
			message: "wrong number of fields",
		},
		{
			name:    "duplicate header",
			path:    func(t *testing.T) string { return writeFile(t, "data.csv", "a,a\n1,2\n") },
			message: `duplicate column name "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := NewDataReader(path, DefaultReaderConfig(), nil).ReadTable(context.Background())
			require.Error(t, err)
			assert.Equal(t, errors.CodeFileAccess, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestReadTableHonoursCancellation(t *testing.T) {
	path := writeFile(t, "data.csv", "a\n1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDataReader(path, DefaultReaderConfig(), nil).ReadTable(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenRowsStreamsHeaderAndRows(t *testing.T) {
	path := writeFile(t, "data.csv", "id,amount\n1,5\n2,\n")

	src, err := NewDataReader(path, DefaultReaderConfig(), nil).OpenRows(context.Background())
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, []string{"id", "amount"}, src.Header())

	row, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5"}, row)

	row, err = src.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", ""}, row)

	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReadXLSX(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]interface{}{
		{"id", "amount"},
		{1, 5.0},
		{2, nil},
		{},
		{3, 15.5},
	})

	table := readTable(t, path, DefaultReaderConfig())

	assert.Equal(t, 3, table.RowCount())
	col, err := table.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, tabular.TypeFloat, col.Type)
	assert.True(t, col.Values[1].IsMissing())
	assert.Equal(t, 15.5, col.Values[2].AsFloat())
}

func TestReadXLSXUsesStoredValues(t *testing.T) {
	tests := []struct {
		name   string
		numFmt int
	}{
		{"two decimals", 2},
		{"thousands separator", 4},
		{"percent", 10},
		{"scientific", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeXLSX(t, "Sheet1", [][]interface{}{
				{"amount", "flag"},
				{1234.5, true},
				{0.125, false},
			})
			f, err := excelize.OpenFile(path)
			require.NoError(t, err)
			style, err := f.NewStyle(&excelize.Style{NumFmt: tt.numFmt})
			require.NoError(t, err)
			require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A3", style))
			require.NoError(t, f.Save())
			require.NoError(t, f.Close())

			table := readTable(t, path, DefaultReaderConfig())

			amount, err := table.Column("amount")
			require.NoError(t, err)
			assert.Equal(t, tabular.TypeFloat, amount.Type)
			assert.Equal(t, 1234.5, amount.Values[0].AsFloat())
			assert.Equal(t, 0.125, amount.Values[1].AsFloat())

			flag, err := table.Column("flag")
			require.NoError(t, err)
			assert.Equal(t, tabular.TypeBoolean, flag.Type)
			assert.Equal(t, tabular.Bool(true), flag.Values[0])
			assert.Equal(t, tabular.Bool(false), flag.Values[1])
		})
	}
}

func TestReadXLSXSheetSelection(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]interface{}{{"a"}, {1}})

	config := DefaultReaderConfig()
	config.Sheet = "Missing"
	_, err := NewDataReader(path, config, nil).ReadTable(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeFileAccess, errors.GetCode(err))
	assert.Contains(t, err.Error(), `sheet "Missing"`)
}

func TestCoercerFollowsConfig(t *testing.T) {
	config := DefaultReaderConfig()
	config.Coercion = coercer.CoercionConfig{InferSchemaLength: 5, TrimSpace: true}

	r := NewDataReader("data.csv", config, nil)
	assert.Equal(t, 5, r.Coercer().SampleSize())
	assert.Equal(t, "data.csv", r.Path())
}
