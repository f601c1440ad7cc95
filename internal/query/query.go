// Package query turns a collection plus an explicit view state into one page
// of results: search, then filter, then sort, then paginate. It never
// modifies the collection it is given.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/studentflow/studentflow-backend/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// DefaultPageSize applies when neither the state nor the engine set one.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100
)

// Result is one page of matches plus paging totals.
type Result struct {
	Students   []model.StudentRecord `json:"students"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"per_page"`
	TotalItems int                   `json:"total_items"`
	TotalPages int                   `json:"total_pages"`
}

// Engine runs queries with a configured default page size.
type Engine struct {
	pageSize int
}

// NewEngine creates an Engine. A non-positive page size falls back to
// DefaultPageSize and anything above MaxPageSize is capped.
func NewEngine(pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Engine{pageSize: pageSize}
}

// PageSize returns the engine's default page size.
func (e *Engine) PageSize() int {
	return e.pageSize
}

// Run recomputes the visible page from scratch.
func (e *Engine) Run(records []model.StudentRecord, state model.QueryState) Result {
	size := state.PageSize
	if size < 1 {
		size = e.pageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := state.Page
	if page < 1 {
		page = 1
	}

	matches := Filter(records, state)
	Sort(matches, state.SortKey, state.SortDir)
	items, totalPages := Paginate(matches, page, size)

	return Result{
		Students:   items,
		Page:       page,
		PerPage:    size,
		TotalItems: len(matches),
		TotalPages: totalPages,
	}
}

// Filter returns, in input order, a new slice of the records that match the
// search text and every non-empty filter.
func Filter(records []model.StudentRecord, state model.QueryState) []model.StudentRecord {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(state.Search))
	department := strings.TrimSpace(state.Department)

	out := make([]model.StudentRecord, 0, len(records))
	for _, r := range records {
		if department != "" && !inScope(fold, r, department) {
			continue
		}
		if state.Branch != "" && r.Branch != state.Branch {
			continue
		}
		if state.Year != "" && r.Year != state.Year {
			continue
		}
		if needle != "" && !matchesSearch(fold, r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(fold cases.Caser, r model.StudentRecord, needle string) bool {
	for _, field := range []string{r.Name, r.RollNo, r.Email, r.Branch} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// InScope reports whether a record belongs to a department: its branch
// equals the department or contains it, ignoring case. An empty department
// covers everything.
func InScope(r model.StudentRecord, department string) bool {
	if department == "" {
		return true
	}
	return inScope(cases.Fold(), r, department)
}

func inScope(fold cases.Caser, r model.StudentRecord, department string) bool {
	return r.Branch == department ||
		strings.Contains(fold.String(r.Branch), fold.String(department))
}

// IsSortKey reports whether key names a sortable field. Empty is allowed and
// means input order.
func IsSortKey(key string) bool {
	switch key {
	case "", model.SortByRollNo, model.SortByName, model.SortByBranch, model.SortByYear,
		model.SortByEmail, model.SortByPhone, model.SortByDateOfBirth,
		model.SortByCGPA, model.SortByAttendance:
		return true
	}
	return false
}

// Sort orders records in place by key. The sort is stable in both directions,
// so equal keys keep their input order. Unknown keys leave the order as is.
func Sort(records []model.StudentRecord, key string, dir model.SortDirection) {
	compare := comparator(key)
	if compare == nil {
		return
	}
	if dir == model.SortDesc {
		asc := compare
		compare = func(a, b model.StudentRecord) int { return asc(b, a) }
	}
	slices.SortStableFunc(records, compare)
}

func comparator(key string) func(a, b model.StudentRecord) int {
	switch key {
	case model.SortByCGPA:
		return func(a, b model.StudentRecord) int { return cmp.Compare(a.CGPA, b.CGPA) }
	case model.SortByAttendance:
		return func(a, b model.StudentRecord) int { return cmp.Compare(a.Attendance, b.Attendance) }
	}

	field := stringField(key)
	if field == nil {
		return nil
	}
	coll := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
	return func(a, b model.StudentRecord) int {
		return coll.CompareString(field(a), field(b))
	}
}

func stringField(key string) func(model.StudentRecord) string {
	switch key {
	case model.SortByRollNo:
		return func(r model.StudentRecord) string { return r.RollNo }
	case model.SortByName:
		return func(r model.StudentRecord) string { return r.Name }
	case model.SortByBranch:
		return func(r model.StudentRecord) string { return r.Branch }
	case model.SortByYear:
		return func(r model.StudentRecord) string { return r.Year }
	case model.SortByEmail:
		return func(r model.StudentRecord) string { return r.Email }
	case model.SortByPhone:
		return func(r model.StudentRecord) string { return r.Phone }
	case model.SortByDateOfBirth:
		return func(r model.StudentRecord) string { return r.DateOfBirth }
	}
	return nil
}

// Paginate returns the 1-based page of size items and the total page count.
// Pages past the end come back empty, never nil.
func Paginate(records []model.StudentRecord, page, size int) ([]model.StudentRecord, int) {
	if size < 1 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	totalPages := len(records) / size
	if len(records)%size != 0 {
		totalPages++
	}
	if page-1 >= totalPages {
		return []model.StudentRecord{}, totalPages
	}

	start := (page - 1) * size
	end := start + min(size, len(records)-start)
	return records[start:end], totalPages
}

// Branches lists the distinct non-empty branches, sorted, for filter menus.
func Branches(records []model.StudentRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		if r.Branch == "" {
			continue
		}
		if _, ok := seen[r.Branch]; ok {
			continue
		}
		seen[r.Branch] = struct{}{}
		out = append(out, r.Branch)
	}
	slices.Sort(out)
	return out
}
