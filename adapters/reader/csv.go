package reader

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	apperrors "colstats/internal/errors"
)

type csvRows struct {
	path   string
	file   *os.File
	reader *csv.Reader
	header []string
}

func openCSVRows(path string, delimiter rune) (*csvRows, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.FileAccess(path, err)
	}

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	// the header fixes the field count for every following record

	header, err := reader.Read()
	if err == io.EOF {
		file.Close()
		return nil, apperrors.Malformed(path, "missing header row")
	}
	if err != nil {
		file.Close()
		return nil, apperrors.FileAccess(path, err)
	}

	names := make([]string, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
	}
	names[0] = strings.TrimSpace(strings.TrimPrefix(header[0], "\ufeff"))

	if err := checkHeader(path, names); err != nil {
		file.Close()
		return nil, err
	}

	return &csvRows{path: path, file: file, reader: reader, header: names}, nil
}

func (c *csvRows) Header() []string {
	return c.header
}

func (c *csvRows) Next() ([]string, error) {
	record, err := c.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, apperrors.FileAccess(c.path, err)
	}
	return record, nil
}

func (c *csvRows) Close() error {
	return c.file.Close()
}
