package codec

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"github.com/studentflow/studentflow-backend/internal/model"
)

// requiredJSONFields must be present and non-empty on every imported object.
var requiredJSONFields = []string{"rollNo", "name", "branch", "year", "email"}

// EncodeJSON serializes the collection as a bare, pretty-printed array.
func EncodeJSON(records []model.StudentRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCollection
	}
	return json.MarshalIndent(records, "", "  ")
}

// EncodeBackup serializes the collection inside a versioned envelope.
func EncodeBackup(records []model.StudentRecord, exportedAt time.Time) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCollection
	}
	env := model.BackupEnvelope{
		ExportDate:    exportedAt.UTC(),
		Version:       model.BackupVersion,
		TotalStudents: len(records),
		Students:      records,
	}
	return json.MarshalIndent(env, "", "  ")
}

// DecodeJSON accepts either a bare array of student objects (plain export,
// treated as the legacy form) or a backup envelope carrying a supported
// version. Objects without a version are rejected.
func DecodeJSON(data []byte) ([]model.StudentRecord, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		env, err := unwrapEnvelope(v)
		if err != nil {
			return nil, err
		}
		items = env
	default:
		return nil, fmt.Errorf("%w: JSON data must be an array of student objects", ErrInvalidFormat)
	}

	records := make([]model.StudentRecord, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is not an object", ErrInvalidFormat, i+1)
		}
		rec, err := recordFromObject(obj, i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}
	return records, nil
}

func unwrapEnvelope(obj map[string]any) ([]any, error) {
	raw, ok := obj["version"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: envelope has no version", ErrUnsupportedVersion)
	}
	if version := cast.ToString(raw); version != model.BackupVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	students, ok := obj["students"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: envelope has no students array", ErrInvalidFormat)
	}
	return students, nil
}

func recordFromObject(obj map[string]any, index int) (model.StudentRecord, error) {
	for _, field := range requiredJSONFields {
		if strings.TrimSpace(stringField(obj, field)) == "" {
			return model.StudentRecord{}, &MissingFieldError{Field: field, Index: index}
		}
	}

	id := stringField(obj, "id")
	if id == "" {
		id = NewID()
	}

	return model.StudentRecord{
		ID:          id,
		RollNo:      stringField(obj, "rollNo"),
		Name:        stringField(obj, "name"),
		Branch:      stringField(obj, "branch"),
		Year:        strings.TrimSpace(stringField(obj, "year")),
		Email:       stringField(obj, "email"),
		Phone:       stringField(obj, "phone"),
		DateOfBirth: stringField(obj, "dateOfBirth"),
		CGPA:        numberField(obj, "cgpa", MaxCGPA),
		Attendance:  numberField(obj, "attendance", MaxAttendance),
		Address:     stringField(obj, "address"),
		Notes:       stringField(obj, "notes"),
	}, nil
}

// stringField coerces scalars to text; absent, null and nested values read as "".
func stringField(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

func numberField(obj map[string]any, key string, hi float64) float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0
	}
	if s, isString := v.(string); isString {
		return parseScore(s, hi)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return clamp(f, hi)
}
