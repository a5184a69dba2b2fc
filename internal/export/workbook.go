package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/iosplus-extract/internal/mapper"
)

// Workbook writes a single-sheet xlsx file named after the schema, with a
// bold header row and typed numeric and boolean cells.
type Workbook struct{}

func NewWorkbook() *Workbook { return &Workbook{} }

func (Workbook) Ext() string { return FormatXLSX }

func (Workbook) Write(w io.Writer, s *mapper.Schema, recs []mapper.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.Name
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]interface{}, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = excelize.Cell{StyleID: bold, Value: c.Name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, r := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, r.Values()); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return f.Write(w)
}
