package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVExporter writes one row per record with an id column followed by
// the named features, for building training tables with the same code
// that serves predictions.
type CSVExporter struct {
	w       *csv.Writer
	columns []string
	header  bool
	rows    int
}

func NewCSVExporter(w io.Writer, columns []string) *CSVExporter {
	return &CSVExporter{w: csv.NewWriter(w), columns: columns}
}

func (e *CSVExporter) Write(id string, c Computed) error {
	if !e.header {
		header := append([]string{"opportunity_id"}, e.columns...)
		if err := e.w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		e.header = true
	}

	row := make([]string, 0, len(e.columns)+1)
	row = append(row, id)
	for _, name := range e.columns {
		v, ok := c[name]
		if !ok {
			return &SchemaDriftError{Feature: name}
		}
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	if err := e.w.Write(row); err != nil {
		return fmt.Errorf("write row %d: %w", e.rows+1, err)
	}
	e.rows++
	return nil
}

// Rows reports how many data rows were written.
func (e *CSVExporter) Rows() int {
	return e.rows
}

func (e *CSVExporter) Flush() error {
	e.w.Flush()
	return e.w.Error()
}
