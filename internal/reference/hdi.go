package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultHDI is used whenever an entity cannot be resolved to a value.
const DefaultHDI = 0.5

// HDITable maps ISO3 codes to a human development index in [0,1].
type HDITable struct {
	values map[string]float64
}

// NewHDITable builds a table from code/value pairs.
func NewHDITable(values map[string]float64) *HDITable {
	t := &HDITable{values: make(map[string]float64, len(values))}
	for code, v := range values {
		t.values[strings.ToUpper(code)] = v
	}
	return t
}

// LoadHDIFile reads an HDI CSV from disk.
func LoadHDIFile(path string) (*HDITable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadHDI(f)
}

// LoadHDI reads a CSV with a header row. The code column is "Code" or
// "iso3"; the value column is the first header mentioning "hdi" or
// "human development", otherwise the last column. Only the first row
// with a usable value is kept for each code.
func LoadHDI(r io.Reader) (*HDITable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("hdi table is empty")
		}
		return nil, fmt.Errorf("read hdi header: %w", err)
	}

	codeCol, valueCol := -1, -1
	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		switch {
		case lower == "code" || lower == "iso3":
			codeCol = i
		case valueCol < 0 && (strings.Contains(lower, "hdi") || strings.Contains(lower, "human development")):
			valueCol = i
		}
	}
	if codeCol < 0 {
		return nil, fmt.Errorf("hdi table has no Code column")
	}
	if valueCol < 0 {
		valueCol = len(header) - 1
	}
	if valueCol == codeCol {
		return nil, fmt.Errorf("hdi table has no value column")
	}

	values := make(map[string]float64)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read hdi line %d: %w", line, err)
		}
		if codeCol >= len(record) || valueCol >= len(record) {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(record[codeCol]))
		raw := strings.TrimSpace(record[valueCol])
		if code == "" || raw == "" {
			continue
		}
		if _, seen := values[code]; seen {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			continue
		}
		values[code] = v
	}

	return &HDITable{values: values}, nil
}

// Lookup returns the value recorded for an ISO3 code.
func (t *HDITable) Lookup(iso3 string) (float64, bool) {
	if t == nil || iso3 == "" {
		return 0, false
	}
	v, ok := t.values[strings.ToUpper(iso3)]
	return v, ok
}

// ForEntity resolves an entity name through the country table. Any miss
// yields DefaultHDI.
func (t *HDITable) ForEntity(entity string) float64 {
	country, ok := LookupCountry(entity)
	if !ok {
		return DefaultHDI
	}
	if v, ok := t.Lookup(country.ISO3); ok {
		return v
	}
	return DefaultHDI
}

func (t *HDITable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}
