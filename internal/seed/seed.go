// Package seed generates a demo collection for local development.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/studentflow/studentflow-backend/internal/model"
)

var branches = []string{
	"Computer Science",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Civil Engineering",
	"Electronics & Communication",
	"Information Technology",
	"Chemical Engineering",
	"Biotechnology",
}

var names = []string{
	"Arjun Kumar", "Priya Sharma", "Rohit Singh", "Sneha Patel", "Vikram Yadav",
	"Anjali Gupta", "Rajesh Verma", "Pooja Reddy", "Amit Joshi", "Kavya Nair",
	"Sanjay Tiwari", "Ritika Agarwal", "Nikhil Chandra", "Deepika Malhotra", "Akash Mehta",
}

// DefaultCount is the size of the stock demo collection.
var DefaultCount = len(names)

// Students returns n form inputs that pass validation. Names cycle after the
// first fifteen; roll numbers and emails stay unique.
func Students(n int, rng *rand.Rand) []model.StudentInput {
	out := make([]model.StudentInput, 0, n)
	for i := range n {
		name := names[i%len(names)]
		local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
		if i >= len(names) {
			local += strconv.Itoa(i / len(names))
		}

		cgpa := truncate(6.5+float64(i%3)+rng.Float64()*1.5, 2)
		attendance := truncate(75+float64(i%20)+rng.Float64()*5, 1)

		out = append(out, model.StudentInput{
			RollNo:      fmt.Sprintf("2024%03d", i+1),
			Name:        name,
			Branch:      branches[i%len(branches)],
			Year:        strconv.Itoa(i%4 + 1),
			Email:       local + "@college.edu",
			Phone:       fmt.Sprintf("98765%05d", (43210+i)%100000),
			DateOfBirth: fmt.Sprintf("200%d-%02d-%02d", 2+i%3, i%12+1, i%28+1),
			CGPA:        model.NumericString(strconv.FormatFloat(min(cgpa, 10), 'f', -1, 64)),
			Attendance:  model.NumericString(strconv.FormatFloat(min(attendance, 100), 'f', -1, 64)),
			Address:     fmt.Sprintf("%d Student Colony, College Road, City - 400%03d", i+1, (i+1)%1000),
			Notes:       notes(i),
		})
	}
	return out
}

func notes(i int) string {
	switch i % 3 {
	case 0:
		return "Active in extracurricular activities"
	case 1:
		return "Good academic performance"
	default:
		return ""
	}
}

func truncate(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p) / p
}
