package model

// Distribution counts records per fixed bucket.
type Distribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

// BranchSummary is one row of the per-branch breakdown.
type BranchSummary struct {
	Branch            string  `json:"branch"`
	Count             int     `json:"count"`
	AverageCGPA       float64 `json:"averageCGPA"`
	AverageAttendance float64 `json:"averageAttendance"`
}

// Report is the dashboard summary of a collection.
type Report struct {
	TotalStudents           int             `json:"totalStudents"`
	AverageCGPA             float64         `json:"averageCGPA"`
	AverageAttendance       int             `json:"averageAttendance"`
	BranchDistribution      map[string]int  `json:"branchDistribution"`
	YearDistribution        map[string]int  `json:"yearDistribution"`
	PerformanceDistribution Distribution    `json:"performanceDistribution"`
	AttendanceDistribution  Distribution    `json:"attendanceDistribution"`
	BranchBreakdown         []BranchSummary `json:"branchBreakdown"`
	TopBranch               string          `json:"topBranch,omitempty"`
}
