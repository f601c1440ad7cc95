package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/studentflow/studentflow-backend/internal/model"
)

// Format names an exchange format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return xlsxMIME
	default:
		return "application/octet-stream"
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat picks the format from the file extension, falling back to
// sniffing the content.
func DetectFormat(filename string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}

	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is(xlsxMIME):
			return FormatXLSX, nil
		case m.Is("application/json"):
			return FormatJSON, nil
		case m.Is("text/csv"), m.Is("text/plain"):
			return FormatCSV, nil
		}
	}
	return "", fmt.Errorf("%w: detected %s", ErrUnknownFormat, mt.String())
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) ([]model.StudentRecord, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(data)
	case FormatJSON:
		return DecodeJSON(data)
	case FormatXLSX:
		return DecodeXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encode serializes records in the given format. JSON here is the bare
// array; backups go through EncodeBackup.
func Encode(format Format, records []model.StudentRecord) ([]byte, error) {
	switch format {
	case FormatCSV:
		return EncodeCSV(records)
	case FormatJSON:
		return EncodeJSON(records)
	case FormatXLSX:
		return EncodeXLSX(records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
