package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// XLSXSheet is the worksheet name written by EncodeXLSX.
const XLSXSheet = "Students"

// EncodeXLSX writes the same column layout as EncodeCSV into a workbook.
// Scores are stored as numeric cells.
func EncodeXLSX(records []model.StudentRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCollection
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(XLSXSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.RollNo, r.Name, r.Branch, r.Year, r.Email, r.Phone,
			r.DateOfBirth, r.CGPA, r.Attendance, r.Address, r.Notes,
		}
		if err := f.SetSheetRow(XLSXSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// xlsxRequiredCells covers RollNo through Email. Rows reaching that far are
// padded, since spreadsheet rows drop trailing blank cells.
const xlsxRequiredCells = 5

// DecodeXLSX reads the first worksheet using the CSV header and row rules.
// Rows that stop before Email are skipped like short CSV rows.
func DecodeXLSX(data []byte) ([]model.StudentRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidFormat)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(rows) == 0 || !headerMatches(rows[0]) {
		return nil, fmt.Errorf("%w: please check the headers", ErrInvalidFormat)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < xlsxRequiredCells || isBlankRow(row) {
			continue
		}
		for len(row) < len(Columns) {
			row = append(row, "")
		}
		dataRows = append(dataRows, row)
	}
	return buildRecords(dataRows)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
