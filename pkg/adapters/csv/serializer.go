// Package csv serializes drilling tables as comma separated text.
package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports"
)

var _ ports.TableCodec = (*Serializer)(nil)

// Serializer implements ports.TableCodec for CSV.
// Values are written in the shortest decimal form that parses back to the
// same float64, so a write/read cycle is exact.
type Serializer struct {
	Comma rune
}

// New creates a comma separated serializer.
func New() *Serializer {
	return &Serializer{Comma: ','}
}

// Format returns domain.FormatCSV.
func (s *Serializer) Format() domain.Format {
	return domain.FormatCSV
}

// Write writes the header row followed by one record per depth point.
func (s *Serializer) Write(w io.Writer, table *domain.Table) error {
	cw := stdcsv.NewWriter(w)
	cw.Comma = s.comma()

	if err := cw.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(table.Columns()))
	for i := 0; i < table.Len(); i++ {
		for j, v := range table.Row(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read parses a table written by Write.
func (s *Serializer) Read(r io.Reader) (*domain.Table, error) {
	cr := stdcsv.NewReader(r)
	cr.Comma = s.comma()
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty csv: %w", domain.ErrColumnLength)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := append([]string(nil), header...)
	cr.FieldsPerRecord = len(columns)

	var rows [][]float64
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %q: %w", line, columns[j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	return domain.FromRows(columns, rows)
}

func (s *Serializer) comma() rune {
	if s.Comma == 0 {
		return ','
	}
	return s.Comma
}
