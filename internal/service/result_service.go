package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

type resultRepo interface {
	BulkInsert(ctx context.Context, records []models.ResultRecord) error
	List(ctx context.Context, filter models.ResultFilter) ([]models.ResultRecord, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ResultRecord, error)
}

type scopeResolver interface {
	ScopeForCourse(ctx context.Context, courseName string) (*models.EnrollmentScope, error)
	Resolve(ctx context.Context, rawRef string, scope *models.EnrollmentScope) (string, error)
}

type ingestObserver interface {
	RecordIngestBatch(outcome string, rows int)
}

// IngestBatchRequest carries one bulk result submission.
type IngestBatchRequest struct {
	Rows []models.RawScoreRow `json:"rows" validate:"required,min=1"`
}

// GradePreview is the derived outcome for a marks/total pair.
type GradePreview struct {
	Percentage int    `json:"percentage"`
	Grade      string `json:"grade"`
}

// ResultService turns raw score rows into canonical graded records.
type ResultService struct {
	results      resultRepo
	resolver     scopeResolver
	validator    *validator.Validate
	logger       *zap.Logger
	metrics      ingestObserver
	maxBatchRows int
}

// NewResultService constructs ResultService. metrics may be nil.
func NewResultService(results resultRepo, resolver scopeResolver, validate *validator.Validate, logger *zap.Logger, metrics ingestObserver, maxBatchRows int) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBatchRows <= 0 {
		maxBatchRows = 500
	}
	return &ResultService{
		results:      results,
		resolver:     resolver,
		validator:    validate,
		logger:       logger,
		metrics:      metrics,
		maxBatchRows: maxBatchRows,
	}
}

// IngestBatch validates, resolves and grades every submitted row, then
// persists the whole batch as a single unit. Any validation or resolution
// failure aborts the batch before a single record is written; the returned
// error names the first offending row. There is no partial-success mode.
func (s *ResultService) IngestBatch(ctx context.Context, req IngestBatchRequest, uploaderID string) ([]models.ResultRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ingest payload")
	}
	if uploaderID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "uploader identity required")
	}
	if len(req.Rows) > s.maxBatchRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("batch exceeds %d rows", s.maxBatchRows))
	}

	rows := make([]models.RawScoreRow, len(req.Rows))
	copy(rows, req.Rows)
	for i := range rows {
		if rowErr := validateRow(i, &rows[i]); rowErr != nil {
			s.observe("rejected_validation", 0)
			return nil, appErrors.WithDetails(appErrors.ErrValidation, rowErr.Error(), rowErr)
		}
	}

	// Scope lookups are cached per distinct course name for the lifetime of
	// this call only, so stale enrollment data cannot leak across batches.
	scopes := make(map[string]*models.EnrollmentScope)
	studentIDs := make([]string, len(rows))
	for i := range rows {
		scope, ok := scopes[rows[i].CourseName]
		if !ok {
			loaded, err := s.resolver.ScopeForCourse(ctx, rows[i].CourseName)
			if err != nil {
				s.observe("rejected_resolution", 0)
				return nil, s.rowErrorFrom(err, i, "course")
			}
			scope = loaded
			scopes[rows[i].CourseName] = scope
		}
		studentID, err := s.resolver.Resolve(ctx, rows[i].StudentRef, scope)
		if err != nil {
			s.observe("rejected_resolution", 0)
			return nil, s.rowErrorFrom(err, i, "student_ref")
		}
		studentIDs[i] = studentID
	}

	records := make([]models.ResultRecord, len(rows))
	for i, row := range rows {
		percentage, grade := ComputeGrade(row.Marks, row.TotalMarks)
		records[i] = models.ResultRecord{
			StudentID:  studentIDs[i],
			CourseName: row.CourseName,
			Category:   row.Category,
			ExamLabel:  row.ExamLabel,
			Marks:      row.Marks,
			TotalMarks: row.TotalMarks,
			Percentage: percentage,
			Grade:      grade,
			ExamDate:   row.ExamDate,
			Semester:   row.Semester,
			UploadedBy: uploaderID,
		}
	}

	if err := s.results.BulkInsert(ctx, records); err != nil {
		s.observe("failed_persistence", 0)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist result batch")
	}

	s.observe("accepted", len(records))
	s.logger.Info("result batch ingested",
		zap.Int("rows", len(records)),
		zap.Int("courses", len(scopes)),
		zap.String("uploader_id", uploaderID),
	)
	return records, nil
}

// List returns canonical result records matching the filter.
func (s *ResultService) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultRecord, *models.Pagination, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown exam category %q", string(filter.Category)))
	}
	records, total, err := s.results.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// PreviewGrade derives percentage and letter grade without persisting.
func (s *ResultService) PreviewGrade(marks, total float64) (*GradePreview, error) {
	if marks < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "marks must not be negative")
	}
	if total < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "total marks must be at least 1")
	}
	if marks > total {
		return nil, appErrors.Clone(appErrors.ErrValidation, "marks must not exceed total marks")
	}
	percentage, grade := ComputeGrade(marks, total)
	return &GradePreview{Percentage: percentage, Grade: grade}, nil
}

// rowErrorFrom attaches the failing row index to a resolution error while
// preserving its code and status.
func (s *ResultService) rowErrorFrom(err error, row int, field string) error {
	appErr := appErrors.FromError(err)
	rowErr := &RowError{Row: row, Field: field, Reason: appErr.Message}
	return appErrors.WithDetails(appErr, rowErr.Error(), rowErr)
}

func (s *ResultService) observe(outcome string, rows int) {
	if s.metrics != nil {
		s.metrics.RecordIngestBatch(outcome, rows)
	}
}
