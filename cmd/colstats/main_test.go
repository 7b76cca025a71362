package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	domainStats "colstats/domain/stats"
	"colstats/internal/config"
	"colstats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(config.Default(), nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payments.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatAggregate(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		expected string
	}{
		{"absent", nil, "N/A"},
		{"four decimals", domainStats.Present(10), "10.0000"},
		{"rounded", domainStats.Present(2.0 / 3.0), "0.6667"},
		{"negative", domainStats.Present(-1.5), "-1.5000"},
		{"nan", domainStats.Present(math.NaN()), "NaN"},
		{"infinity", domainStats.Present(math.Inf(-1)), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatAggregate(tt.value))
		})
	}
}

func TestRootCommand(t *testing.T) {
	path := writeCSV(t, "id,Amount Received\n1,5\n2,\n3,10\n")

	for _, strategy := range []string{"lazy", "eager"} {
		t.Run(strategy, func(t *testing.T) {
			out, err := run(t, "-f", path, "--strategy", strategy)
			require.NoError(t, err)
			assert.Equal(t, "--- Statistics for 'Amount Received' ---\n"+
				"Count: 3\n"+
				"Min:   5.0000\n"+
				"Max:   10.0000\n"+
				"Sum:   15.0000\n"+
				"Mean:  7.5000\n", out)
		})
	}
}

func TestRootCommandAbsentAggregates(t *testing.T) {
	path := writeCSV(t, "amount\n")

	out, err := run(t, "--file-path", path, "--column-name", "amount")
	require.NoError(t, err)
	assert.Contains(t, out, "Count: 0\n")
	assert.Contains(t, out, "Mean:  N/A\n")
}

func TestRootCommandErrors(t *testing.T) {
	path := writeCSV(t, "id,amount\n1,x\n")

	t.Run("file path is required", func(t *testing.T) {
		_, err := run(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file-path")
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := run(t, "-f", path, "-c", "total")
		require.Error(t, err)
		assert.Equal(t, errors.CodeColumnNotFound, errors.GetCode(err))
		assert.Contains(t, err.Error(), `available columns: ["id", "amount"]`)
	})

	t.Run("non numeric column", func(t *testing.T) {
		_, err := run(t, "-f", path, "-c", "amount")
		require.Error(t, err)
		assert.Equal(t, errors.CodeTypeCoercion, errors.GetCode(err))
	})

	t.Run("bad delimiter", func(t *testing.T) {
		_, err := run(t, "-f", path, "--delimiter", "::")
		require.Error(t, err)
		assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	})

	t.Run("negative sample size", func(t *testing.T) {
		_, err := run(t, "-f", path, "--infer-schema-length", "-1")
		assert.ErrorIs(t, err, config.ErrNegativeSampleSize)
	})
}

func TestSchemaCommand(t *testing.T) {
	path := writeCSV(t, "id,Amount Received\n1,2.5\n")

	out, err := run(t, "schema", "-f", path, "--delimiter", ",")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 rows)")
	assert.Contains(t, out, "id               integer\n")
	assert.Contains(t, out, "Amount Received  float\n")
}
