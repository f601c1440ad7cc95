package model

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// StudentRecord is one row of academic data. JSON names match the persisted
// blob and the exchange formats.
type StudentRecord struct {
	ID          string  `json:"id"`
	RollNo      string  `json:"rollNo"`
	Name        string  `json:"name"`
	Branch      string  `json:"branch"`
	Year        string  `json:"year"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	DateOfBirth string  `json:"dateOfBirth"`
	CGPA        float64 `json:"cgpa"`
	Attendance  float64 `json:"attendance"`
	Address     string  `json:"address"`
	Notes       string  `json:"notes"`
}

// Valid years of study.
var Years = []string{"1", "2", "3", "4"}

// NumericString holds a form number as text so that "" (absent) and "abc"
// (invalid) can be told apart from 0. It accepts both JSON strings and numbers.
type NumericString string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	*n = NumericString(data)
	return nil
}

// Float parses the value, reporting false when it is empty or not a number.
func (n NumericString) Float() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// StudentInput is the form payload for creating or fully replacing a student.
type StudentInput struct {
	RollNo      string        `json:"rollNo" validate:"required"`
	Name        string        `json:"name" validate:"required"`
	Branch      string        `json:"branch" validate:"required"`
	Year        string        `json:"year" validate:"required,oneof=1 2 3 4"`
	Email       string        `json:"email" validate:"required,basic_email"`
	Phone       string        `json:"phone" validate:"omitempty,phone10"`
	DateOfBirth string        `json:"dateOfBirth" validate:"omitempty,isodate"`
	CGPA        NumericString `json:"cgpa" validate:"omitempty,numrange=0:10"`
	Attendance  NumericString `json:"attendance" validate:"omitempty,numrange=0:100"`
	Address     string        `json:"address"`
	Notes       string        `json:"notes"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (in StudentInput) Trimmed() StudentInput {
	return StudentInput{
		RollNo:      strings.TrimSpace(in.RollNo),
		Name:        strings.TrimSpace(in.Name),
		Branch:      strings.TrimSpace(in.Branch),
		Year:        strings.TrimSpace(in.Year),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		DateOfBirth: strings.TrimSpace(in.DateOfBirth),
		CGPA:        NumericString(strings.TrimSpace(string(in.CGPA))),
		Attendance:  NumericString(strings.TrimSpace(string(in.Attendance))),
		Address:     strings.TrimSpace(in.Address),
		Notes:       strings.TrimSpace(in.Notes),
	}
}

// InputFromRecord converts a stored record back into form input.
func InputFromRecord(r StudentRecord) StudentInput {
	return StudentInput{
		RollNo:      r.RollNo,
		Name:        r.Name,
		Branch:      r.Branch,
		Year:        r.Year,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth,
		CGPA:        NumericString(strconv.FormatFloat(r.CGPA, 'f', -1, 64)),
		Attendance:  NumericString(strconv.FormatFloat(r.Attendance, 'f', -1, 64)),
		Address:     r.Address,
		Notes:       r.Notes,
	}
}

// StudentPatch is a partial edit; nil fields keep their stored value.
type StudentPatch struct {
	RollNo      *string        `json:"rollNo"`
	Name        *string        `json:"name"`
	Branch      *string        `json:"branch"`
	Year        *string        `json:"year"`
	Email       *string        `json:"email"`
	Phone       *string        `json:"phone"`
	DateOfBirth *string        `json:"dateOfBirth"`
	CGPA        *NumericString `json:"cgpa"`
	Attendance  *NumericString `json:"attendance"`
	Address     *string        `json:"address"`
	Notes       *string        `json:"notes"`
}

// Apply overlays the patch on the current record and returns the merged input.
func (p StudentPatch) Apply(current StudentRecord) StudentInput {
	in := InputFromRecord(current)
	setString(&in.RollNo, p.RollNo)
	setString(&in.Name, p.Name)
	setString(&in.Branch, p.Branch)
	setString(&in.Year, p.Year)
	setString(&in.Email, p.Email)
	setString(&in.Phone, p.Phone)
	setString(&in.DateOfBirth, p.DateOfBirth)
	setString(&in.Address, p.Address)
	setString(&in.Notes, p.Notes)
	if p.CGPA != nil {
		in.CGPA = *p.CGPA
	}
	if p.Attendance != nil {
		in.Attendance = *p.Attendance
	}
	return in
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
