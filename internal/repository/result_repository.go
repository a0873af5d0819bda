package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acadrec-api/internal/models"
)

// ResultRepository handles canonical result record persistence.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

const resultColumns = "id, student_id, course_name, category, exam_label, marks, total_marks, percentage, grade, exam_date, semester, uploaded_by, created_at"

// BulkInsert persists a batch of result records in one transaction. The
// batch is written as a unit; any failure rolls back every row.
func (r *ResultRepository) BulkInsert(ctx context.Context, records []models.ResultRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		if records[i].CreatedAt.IsZero() {
			records[i].CreatedAt = now
		}
		const query = `INSERT INTO results (id, student_id, course_name, category, exam_label, marks, total_marks, percentage, grade, exam_date, semester, uploaded_by, created_at)
                VALUES (:id, :student_id, :course_name, :category, :exam_label, :marks, :total_marks, :percentage, :grade, :exam_date, :semester, :uploaded_by, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// List returns result records matching the filter with a total count.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultRecord, int, error) {
	base := "FROM results WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CourseName != "" {
		conditions = append(conditions, fmt.Sprintf("course_name = $%d", len(args)+1))
		args = append(args, filter.CourseName)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", resultColumns, base+clause, size, offset)
	var records []models.ResultRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}
	return records, total, nil
}

// ListByStudentSubject returns one student's results for a course, oldest
// first so that attempt-count cuts see the earliest submissions.
func (r *ResultRepository) ListByStudentSubject(ctx context.Context, studentID, subjectName string, category models.ExamCategory) ([]models.ResultRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM results WHERE student_id = $1 AND course_name = $2", resultColumns)
	args := []interface{}{studentID, subjectName}
	if category != "" {
		query += " AND category = $3"
		args = append(args, category)
	}
	query += " ORDER BY created_at ASC"
	var records []models.ResultRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list student subject results: %w", err)
	}
	return records, nil
}

// ListByStudent returns every result for a student, oldest first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ResultRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM results WHERE student_id = $1 ORDER BY course_name, created_at ASC", resultColumns)
	var records []models.ResultRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return records, nil
}
