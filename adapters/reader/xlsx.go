package reader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "colstats/internal/errors"

	"github.com/xuri/excelize/v2"
)

type xlsxRows struct {
	path    string
	file    *excelize.File
	rows    *excelize.Rows // stored cell values
	display *excelize.Rows // formatted cell values, read in step with rows
	header  []string
}

func openXLSXRows(path, sheet string) (*xlsxRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.FileAccess(path, fmt.Errorf("failed to open Excel file: %w", err))
	}

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, apperrors.Malformed(path, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, apperrors.FileAccess(path, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}

	display, err := f.Rows(sheet)
	if err != nil {
		rows.Close()
		f.Close()
		return nil, apperrors.FileAccess(path, fmt.Errorf("failed to read sheet %q: %w", sheet, err))
	}

	x := &xlsxRows{path: path, file: f, rows: rows, display: display}

	header, err := x.nextNonBlank()
	if err == io.EOF {
		x.Close()
		return nil, apperrors.Malformed(path, fmt.Sprintf("sheet %q has no header row", sheet))
	}
	if err != nil {
		x.Close()
		return nil, err
	}
	// trailing empty header cells do not name columns
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := checkHeader(path, header); err != nil {
		x.Close()
		return nil, err
	}
	x.header = header

	return x, nil
}

// nextNonBlank skips rows without any non-empty cell, matching the way blank
// lines are skipped in delimited text. Cells carry the stored value, not the
// number-formatted text, so 1234.5 styled as "0.00" still reads as 1234.5.
func (x *xlsxRows) nextNonBlank() ([]string, error) {
	for x.rows.Next() {
		x.display.Next()
		cells, err := x.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.FileAccess(x.path, err)
		}
		shown, err := x.display.Columns()
		if err != nil {
			return nil, apperrors.FileAccess(x.path, err)
		}
		for _, cell := range cells {
			if cell != "" {
				return restoreBooleans(cells, shown), nil
			}
		}
	}
	if err := errors.Join(x.rows.Error(), x.display.Error()); err != nil {
		return nil, apperrors.FileAccess(x.path, err)
	}
	return nil, io.EOF
}

// restoreBooleans puts back TRUE and FALSE for boolean cells, whose stored
// value is 1 or 0
func restoreBooleans(cells, shown []string) []string {
	for i, cell := range cells {
		if i >= len(shown) {
			break
		}
		if (cell == "1" && shown[i] == "TRUE") || (cell == "0" && shown[i] == "FALSE") {
			cells[i] = shown[i]
		}
	}
	return cells
}

func (x *xlsxRows) Header() []string {
	return x.header
}

// Next pads short rows with empty cells; cells past the header are ignored
func (x *xlsxRows) Next() ([]string, error) {
	cells, err := x.nextNonBlank()
	if err != nil {
		return nil, err
	}
	row := make([]string, len(x.header))
	copy(row, cells)
	return row, nil
}

func (x *xlsxRows) Close() error {
	return errors.Join(x.rows.Close(), x.display.Close(), x.file.Close())
}
