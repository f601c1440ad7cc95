package seed

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentflow/studentflow-backend/internal/validator"
)

func TestStudents_AllValid(t *testing.T) {
	inputs := Students(40, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, inputs, 40)

	rolls := map[string]bool{}
	emails := map[string]bool{}
	for _, in := range inputs {
		rec, fields := validator.ValidateStudent(in)
		require.Nil(t, fields, "roll %s: %v", in.RollNo, fields)

		assert.False(t, rolls[in.RollNo], "duplicate roll %s", in.RollNo)
		assert.False(t, emails[in.Email], "duplicate email %s", in.Email)
		rolls[in.RollNo] = true
		emails[in.Email] = true

		assert.GreaterOrEqual(t, rec.CGPA, 6.5)
		assert.LessOrEqual(t, rec.CGPA, 10.0)
		assert.GreaterOrEqual(t, rec.Attendance, 75.0)
		assert.LessOrEqual(t, rec.Attendance, 100.0)
	}
}

func TestStudents_StockShape(t *testing.T) {
	inputs := Students(DefaultCount, rand.New(rand.NewPCG(7, 7)))

	first := inputs[0]
	assert.Equal(t, "2024001", first.RollNo)
	assert.Equal(t, "arjun.kumar@college.edu", first.Email)
	assert.Equal(t, "9876543210", first.Phone)
	assert.Equal(t, "2002-01-01", first.DateOfBirth)
	assert.Equal(t, "Computer Science", first.Branch)
	assert.Equal(t, "1", first.Year)

	assert.Equal(t, "Biotechnology", inputs[7].Branch)
	assert.Equal(t, "Computer Science", inputs[8].Branch)
	assert.Equal(t, "4", inputs[3].Year)
}
