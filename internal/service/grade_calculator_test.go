package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acadrec-api/internal/models"
)

func TestComputeGradeBands(t *testing.T) {
	cases := []struct {
		name       string
		marks      float64
		total      float64
		percentage int
		grade      string
	}{
		{"top band lower edge", 90, 100, 90, "A+"},
		{"just below top band", 89, 100, 89, "A"},
		{"pass lower edge", 40, 100, 40, "D"},
		{"just below pass", 39, 100, 39, "F"},
		{"perfect score", 100, 100, 100, "A+"},
		{"zero", 0, 100, 0, "F"},
		{"fractional rounds half up", 37, 50, 74, "B"},
		{"rounding crosses band boundary", 89.5, 100, 90, "A+"},
		{"rounding stays below boundary", 89.4, 100, 89, "A"},
		{"over total clamps to hundred", 150, 100, 100, "A+"},
		{"negative clamps to zero", -10, 100, 0, "F"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			percentage, grade := ComputeGrade(tc.marks, tc.total)
			assert.Equal(t, tc.percentage, percentage)
			assert.Equal(t, tc.grade, grade)
		})
	}
}

func TestComputeGradeNonPositiveTotal(t *testing.T) {
	percentage, grade := ComputeGrade(10, 0)
	assert.Equal(t, 0, percentage)
	assert.Equal(t, "F", grade)
}

func TestValidateRowFirstFailureWins(t *testing.T) {
	row := models.RawScoreRow{Category: "Midterm", Marks: -5, TotalMarks: 0}
	rowErr := validateRow(3, &row)
	require.NotNil(t, rowErr)
	assert.Equal(t, 3, rowErr.Row)
	assert.Equal(t, "course", rowErr.Field)
}

func TestValidateRowChecks(t *testing.T) {
	cases := []struct {
		name  string
		row   models.RawScoreRow
		field string
	}{
		{"unknown category", models.RawScoreRow{CourseName: "Math", Category: "Quiz", Marks: 5, TotalMarks: 10}, "category"},
		{"negative marks", models.RawScoreRow{CourseName: "Math", Category: models.CategoryICA, Marks: -1, TotalMarks: 10}, "marks"},
		{"zero total", models.RawScoreRow{CourseName: "Math", Category: models.CategoryICA, Marks: 5, TotalMarks: 0}, "total_marks"},
		{"marks exceed total", models.RawScoreRow{CourseName: "Math", Category: models.CategoryICA, Marks: 150, TotalMarks: 100}, "marks"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rowErr := validateRow(0, &tc.row)
			require.NotNil(t, rowErr)
			assert.Equal(t, tc.field, rowErr.Field)
		})
	}
}

func TestValidateRowDefaultsExamLabel(t *testing.T) {
	row := models.RawScoreRow{CourseName: "Math", Category: models.CategoryExternal, Marks: 50, TotalMarks: 100}
	require.Nil(t, validateRow(0, &row))
	assert.Equal(t, "External", row.ExamLabel)
}

func TestValidateRowKeepsExplicitLabel(t *testing.T) {
	row := models.RawScoreRow{CourseName: "Math", Category: models.CategoryICA, ExamLabel: "Test 2", Marks: 12, TotalMarks: 25}
	require.Nil(t, validateRow(0, &row))
	assert.Equal(t, "Test 2", row.ExamLabel)
}
