package service

import (
	"fmt"
	"math"

	"github.com/noah-isme/acadrec-api/internal/models"
)

// gradeBands maps minimum percentages to letter grades, highest first.
var gradeBands = []struct {
	Min    int
	Letter string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{40, "D"},
	{0, "F"},
}

// ComputeGrade derives the integer percentage and letter grade for a score.
// Percentage rounds half up to the nearest integer and stays within 0..100.
// Callers must reject total < 1 before calling; a non-positive total yields
// 0/"F".
func ComputeGrade(marks, total float64) (int, string) {
	if total <= 0 {
		return 0, "F"
	}
	percentage := roundHalfUp(marks / total * 100)
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return percentage, letterFor(percentage)
}

func letterFor(percentage int) string {
	for _, band := range gradeBands {
		if percentage >= band.Min {
			return band.Letter
		}
	}
	return "F"
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// RowError reports the first failing field of one raw score row.
type RowError struct {
	Row    int    `json:"row_index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// validateRow checks structural constraints on a single raw score row and
// applies the exam-label default. Checks run in a fixed order and the first
// failing field is reported.
func validateRow(index int, row *models.RawScoreRow) *RowError {
	if row.CourseName == "" {
		return &RowError{Row: index, Field: "course", Reason: "course name is required"}
	}
	if !row.Category.Valid() {
		return &RowError{Row: index, Field: "category", Reason: fmt.Sprintf("unknown exam category %q", string(row.Category))}
	}
	if row.Marks < 0 {
		return &RowError{Row: index, Field: "marks", Reason: "marks must not be negative"}
	}
	if row.TotalMarks < 1 {
		return &RowError{Row: index, Field: "total_marks", Reason: "total marks must be at least 1"}
	}
	if row.Marks > row.TotalMarks {
		return &RowError{Row: index, Field: "marks", Reason: "marks must not exceed total marks"}
	}
	if row.ExamLabel == "" {
		row.ExamLabel = string(row.Category)
	}
	return nil
}
