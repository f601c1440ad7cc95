package stats

import (
	"math"
	"sort"

	"github.com/studentflow/studentflow-backend/internal/model"
	"github.com/studentflow/studentflow-backend/internal/query"
)

// CGPA bucket floors.
const (
	ExcellentCGPA = 8.5
	GoodCGPA      = 7.0
	AverageCGPA   = 6.0
)

// Attendance bucket floors.
const (
	ExcellentAttendance = 85.0
	GoodAttendance      = 75.0
	AverageAttendance   = 65.0
)

type branchTotals struct {
	count      int
	cgpa       float64
	attendance float64
}

// Compute builds the dashboard report over the records inside department
// (empty means all). An empty selection yields zero values and empty maps.
func Compute(records []model.StudentRecord, department string) model.Report {
	report := model.Report{
		BranchDistribution: map[string]int{},
		YearDistribution:   map[string]int{},
		BranchBreakdown:    []model.BranchSummary{},
	}

	var cgpaSum, attendanceSum float64
	branches := map[string]*branchTotals{}

	for _, r := range records {
		if !query.InScope(r, department) {
			continue
		}
		report.TotalStudents++
		cgpaSum += r.CGPA
		attendanceSum += r.Attendance

		report.BranchDistribution[r.Branch]++
		report.YearDistribution[r.Year]++
		bucket(&report.PerformanceDistribution, r.CGPA, ExcellentCGPA, GoodCGPA, AverageCGPA)
		bucket(&report.AttendanceDistribution, r.Attendance, ExcellentAttendance, GoodAttendance, AverageAttendance)

		bt, ok := branches[r.Branch]
		if !ok {
			bt = &branchTotals{}
			branches[r.Branch] = bt
		}
		bt.count++
		bt.cgpa += r.CGPA
		bt.attendance += r.Attendance
	}

	if report.TotalStudents == 0 {
		return report
	}

	n := float64(report.TotalStudents)
	report.AverageCGPA = round(cgpaSum/n, 2)
	report.AverageAttendance = int(math.Round(attendanceSum / n))

	for name, bt := range branches {
		report.BranchBreakdown = append(report.BranchBreakdown, model.BranchSummary{
			Branch:            name,
			Count:             bt.count,
			AverageCGPA:       round(bt.cgpa/float64(bt.count), 2),
			AverageAttendance: round(bt.attendance/float64(bt.count), 1),
		})
	}
	sort.Slice(report.BranchBreakdown, func(i, j int) bool {
		return report.BranchBreakdown[i].Branch < report.BranchBreakdown[j].Branch
	})
	report.TopBranch = topBranch(branches)

	return report
}

// bucket counts v into the first bucket whose floor it reaches.
func bucket(d *model.Distribution, v, excellent, good, average float64) {
	switch {
	case v >= excellent:
		d.Excellent++
	case v >= good:
		d.Good++
	case v >= average:
		d.Average++
	default:
		d.Poor++
	}
}

// topBranch picks the highest unrounded average CGPA; ties go to the name
// that sorts first.
func topBranch(branches map[string]*branchTotals) string {
	best := ""
	bestAvg := math.Inf(-1)
	for name, bt := range branches {
		avg := bt.cgpa / float64(bt.count)
		if avg > bestAvg || (avg == bestAvg && name < best) {
			best, bestAvg = name, avg
		}
	}
	return best
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
