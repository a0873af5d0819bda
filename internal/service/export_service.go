package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
	"github.com/noah-isme/acadrec-api/pkg/export"
)

type transcriptResults interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.ResultRecord, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// TranscriptFile is a rendered transcript ready for download.
type TranscriptFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders a student's canonical results as CSV or PDF.
type ExportService struct {
	results  transcriptResults
	students studentReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(results transcriptResults, students studentReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		results:  results,
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var transcriptHeaders = []string{"Course", "Category", "Exam", "Marks", "Total", "Percentage", "Grade"}

// Transcript renders all results for a student in the requested format
// ("csv" or "pdf").
func (s *ExportService) Transcript(ctx context.Context, studentID, format string) (*TranscriptFile, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	records, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	dataset := export.Dataset{Headers: transcriptHeaders}
	for _, rec := range records {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Course":     rec.CourseName,
			"Category":   string(rec.Category),
			"Exam":       rec.ExamLabel,
			"Marks":      strconv.FormatFloat(rec.Marks, 'f', -1, 64),
			"Total":      strconv.FormatFloat(rec.TotalMarks, 'f', -1, 64),
			"Percentage": strconv.Itoa(rec.Percentage),
			"Grade":      rec.Grade,
		})
	}

	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript csv")
		}
		return &TranscriptFile{
			FileName:    fmt.Sprintf("transcript-%s.csv", student.RollNo),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		subtitle := fmt.Sprintf("%s (%s) - %s, semester %d", student.FullName, student.RollNo, student.Department, student.Semester)
		content, err := s.pdf.Render(dataset, "Academic Transcript", subtitle)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript pdf")
		}
		return &TranscriptFile{
			FileName:    fmt.Sprintf("transcript-%s.pdf", student.RollNo),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	}
}
