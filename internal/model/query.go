package model

// SortDirection orders query results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Toggle flips the direction. Anything other than desc counts as asc.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Sortable field keys.
const (
	SortByRollNo      = "rollNo"
	SortByName        = "name"
	SortByBranch      = "branch"
	SortByYear        = "year"
	SortByEmail       = "email"
	SortByPhone       = "phone"
	SortByDateOfBirth = "dateOfBirth"
	SortByCGPA        = "cgpa"
	SortByAttendance  = "attendance"
)

// QueryState is the view state that drives which page of records is visible.
// It is passed explicitly on every query; nothing is kept between calls.
type QueryState struct {
	Search     string        `form:"search" json:"search"`
	Branch     string        `form:"branch" json:"branch"`
	Year       string        `form:"year" json:"year"`
	Department string        `form:"department" json:"department"`
	SortKey    string        `form:"sort" json:"sort"`
	SortDir    SortDirection `form:"dir" json:"dir"`
	Page       int           `form:"page" json:"page"`
	PageSize   int           `form:"per_page" json:"per_page"`
}
