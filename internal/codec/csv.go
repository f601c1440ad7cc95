package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/studentflow/studentflow-backend/internal/model"
)

// Columns is the fixed header written by every tabular export, in order.
var Columns = []string{
	"RollNo", "Name", "Branch", "Year", "Email", "Phone",
	"DateOfBirth", "CGPA", "Attendance", "Address", "Notes",
}

// minRowTokens is the shortest data row accepted; Notes may be absent.
const minRowTokens = 10

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodeCSV writes the header plus one line per record. Fields holding a
// comma, quote or line break are quoted with inner quotes doubled.
func EncodeCSV(records []model.StudentRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCollection
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(recordRow(r)); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeCSV parses CSV text into records with fresh ids. The header only has
// to mention every expected column somewhere; rows are read positionally and
// rows with fewer than ten fields are skipped. Quoted fields may span lines,
// but a record that spans lines and still comes up short is re-read as a
// single line, so one stray quote costs only its own row.
func DecodeCSV(data []byte) ([]model.StudentRecord, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	header, n, err := readRecord(data)
	if err != nil || header == nil {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidFormat)
	}
	if !headerMatches(header) {
		return nil, fmt.Errorf("%w: please check the headers", ErrInvalidFormat)
	}

	var rows [][]string
	rest := data[n:]
	for len(rest) > 0 {
		row, n, err := readRecord(rest)
		if err == nil && (len(row) >= minRowTokens || !spansLines(rest[:n])) {
			if row != nil {
				rows = append(rows, row)
			}
			rest = rest[n:]
			continue
		}

		line, tail := cutLine(rest)
		if row, _, err := readRecord(line); err == nil && row != nil {
			rows = append(rows, row)
		}
		rest = tail
	}

	return buildRecords(rows)
}

// readRecord reads the first CSV record of data and reports how many bytes
// it consumed. A nil row means data held nothing but blank lines.
func readRecord(data []byte) ([]string, int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	row, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, len(data), nil
	}
	if err != nil {
		return nil, 0, err
	}
	return row, int(r.InputOffset()), nil
}

func spansLines(b []byte) bool {
	return bytes.IndexByte(bytes.TrimRight(b, "\r\n"), '\n') >= 0
}

func cutLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	return b[:i+1], b[i+1:]
}

// headerMatches reports whether each expected column name appears, ignoring
// case, spaces and quotes, inside at least one header cell. "Roll No" and
// "RollNo" are both accepted.
func headerMatches(header []string) bool {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}
	for _, want := range Columns {
		want = normalizeHeader(want)
		found := false
		for _, h := range normalized {
			if strings.Contains(h, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func normalizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '"', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

func recordRow(r model.StudentRecord) []string {
	return []string{
		r.RollNo, r.Name, r.Branch, r.Year, r.Email, r.Phone,
		r.DateOfBirth, formatNumber(r.CGPA), formatNumber(r.Attendance), r.Address, r.Notes,
	}
}

// buildRecords maps positional rows to records, dropping short rows.
func buildRecords(rows [][]string) ([]model.StudentRecord, error) {
	records := make([]model.StudentRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < minRowTokens {
			continue
		}
		rec := model.StudentRecord{
			ID:          NewID(),
			RollNo:      row[0],
			Name:        row[1],
			Branch:      row[2],
			Year:        strings.TrimSpace(row[3]),
			Email:       row[4],
			Phone:       row[5],
			DateOfBirth: row[6],
			CGPA:        parseScore(row[7], MaxCGPA),
			Attendance:  parseScore(row[8], MaxAttendance),
			Address:     row[9],
		}
		if len(row) > 10 {
			rec.Notes = row[10]
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}
	return records, nil
}
