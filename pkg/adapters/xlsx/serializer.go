// Package xlsx serializes drilling tables as Excel workbooks using excelize.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/aretw0/drillsim/pkg/ports"
	"github.com/xuri/excelize/v2"
)

var _ ports.TableCodec = (*Serializer)(nil)

// DefaultSheet is the worksheet the table is written to.
const DefaultSheet = "Drilling Data"

// Serializer implements ports.TableCodec for XLSX workbooks.
// Numbers are stored as IEEE doubles, so a write/read cycle is exact.
type Serializer struct {
	Sheet string
}

// New creates a serializer writing to DefaultSheet.
func New() *Serializer {
	return &Serializer{Sheet: DefaultSheet}
}

// Format returns domain.FormatXLSX.
func (s *Serializer) Format() domain.Format {
	return domain.FormatXLSX
}

// Write streams the table into a single-sheet workbook with a bold header row.
func (s *Serializer) Write(w io.Writer, table *domain.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := s.sheet()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	columns := table.Columns()
	if err := sw.SetColWidth(1, len(columns), 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: bold}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	values := make([]interface{}, len(columns))
	for i := 0; i < table.Len(); i++ {
		for j, v := range table.Row(i) {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Read parses a workbook written by Write. If the configured sheet is missing,
// the first sheet is used.
func (s *Serializer) Read(r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.sheet()
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets: %w", domain.ErrColumnLength)
		}
		sheet = sheets[0]
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %q is empty: %w", sheet, domain.ErrColumnLength)
	}

	columns := raw[0]
	rows := make([][]float64, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		row := make([]float64, len(cells))
		for j, cell := range cells {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d column %d: %w", sheet, i+2, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return domain.FromRows(columns, rows)
}

func (s *Serializer) sheet() string {
	if s.Sheet == "" {
		return DefaultSheet
	}
	return s.Sheet
}
