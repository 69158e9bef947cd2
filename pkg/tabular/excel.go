package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/xuri/excelize/v2"
)

// FormatExcel names the spreadsheet codec in errors, logs, and traces.
const FormatExcel = "excel"

// DefaultSheet is the sheet written when ExcelOptions.Sheet is empty.
const DefaultSheet = "Sheet1"

// ExcelOptions configures the spreadsheet codec.
type ExcelOptions struct {
	// Sheet selects the worksheet. On decode the empty name selects the first
	// sheet of the workbook; on encode it selects DefaultSheet.
	Sheet string
	// NoHeader treats the first row as data, as in CSVOptions.
	NoHeader bool
}

// DecodeExcel reads one worksheet of an .xlsx workbook into a Table.
//
// Cells are read as their formatted text. Rows shorter than the widest row
// are padded with empty cells so the table stays rectangular.
func DecodeExcel(r io.Reader, opts ExcelOptions) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, excelError(err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, excelError(errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, excelError(fmt.Errorf("sheet %q not found", sheet))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, excelError(err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	t := &Table{}
	if len(rows) == 0 {
		return t, nil
	}
	if opts.NoHeader {
		t.Columns = positionalColumns(width)
	} else {
		t.Columns = pad(rows[0], width)
		rows = rows[1:]
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, pad(row, width))
	}
	return t, nil
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// EncodeExcel writes t as a single-sheet .xlsx workbook.
func EncodeExcel(w io.Writer, t *Table, opts ExcelOptions) error {
	if err := t.Validate(); err != nil {
		return &transport.FormatError{Format: FormatExcel, Cause: err}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return excelError(err)
		}
	}

	next := 1
	writeRow := func(cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return err
		}
		next++
		values := make([]any, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if !opts.NoHeader && len(t.Columns) > 0 {
		if err := writeRow(t.Columns); err != nil {
			return excelError(err)
		}
	}
	for _, row := range t.Rows {
		if err := writeRow(row); err != nil {
			return excelError(err)
		}
	}

	if err := f.Write(w); err != nil {
		return excelError(err)
	}
	return nil
}

func excelError(err error) error {
	var te *transport.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &transport.FormatError{Format: FormatExcel, Cause: err}
}
