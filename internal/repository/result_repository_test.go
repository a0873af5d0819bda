package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/acadrec-api/internal/models"
)

func newResultMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func resultRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "course_name", "category", "exam_label", "marks", "total_marks", "percentage", "grade", "exam_date", "semester", "uploaded_by", "created_at"})
}

func TestResultRepositoryBulkInsert(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO results").
		WithArgs(sqlmock.AnyArg(), "s1", "Math", "ICA", "Test 1", 18.0, 20.0, 90, "A+", nil, nil, "teacher-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO results").
		WithArgs(sqlmock.AnyArg(), "s2", "Math", "ICA", "Test 1", 10.0, 20.0, 50, "D", nil, nil, "teacher-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	records := []models.ResultRecord{
		{StudentID: "s1", CourseName: "Math", Category: models.CategoryICA, ExamLabel: "Test 1", Marks: 18, TotalMarks: 20, Percentage: 90, Grade: "A+", UploadedBy: "teacher-1"},
		{StudentID: "s2", CourseName: "Math", Category: models.CategoryICA, ExamLabel: "Test 1", Marks: 10, TotalMarks: 20, Percentage: 50, Grade: "D", UploadedBy: "teacher-1"},
	}
	err := repo.BulkInsert(context.Background(), records)
	require.NoError(t, err)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[1].CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryBulkInsertRollsBack(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO results").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO results").
		WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	records := []models.ResultRecord{
		{StudentID: "s1", CourseName: "Math", Category: models.CategoryICA, ExamLabel: "Test 1", Marks: 18, TotalMarks: 20, Percentage: 90, Grade: "A+", UploadedBy: "teacher-1"},
		{StudentID: "s1", CourseName: "Math", Category: models.CategoryICA, ExamLabel: "Test 1", Marks: 18, TotalMarks: 20, Percentage: 90, Grade: "A+", UploadedBy: "teacher-1"},
	}
	err := repo.BulkInsert(context.Background(), records)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryBulkInsertEmpty(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	require.NoError(t, repo.BulkInsert(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryList(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	rows := resultRows().
		AddRow("r1", "s1", "Math", "ICA", "Test 1", 18.0, 20.0, 90, "A+", nil, nil, "teacher-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, course_name, category, exam_label, marks, total_marks, percentage, grade, exam_date, semester, uploaded_by, created_at FROM results WHERE 1=1 AND student_id = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("s1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM results WHERE 1=1 AND student_id = $1")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), models.ResultFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryListByStudentSubject(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	rows := resultRows().
		AddRow("r1", "s1", "Math", "ICA", "Test 1", 14.0, 20.0, 70, "B", nil, nil, "teacher-1", time.Now()).
		AddRow("r2", "s1", "Math", "ICA", "Test 2", 18.0, 20.0, 90, "A+", nil, nil, "teacher-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, course_name, category, exam_label, marks, total_marks, percentage, grade, exam_date, semester, uploaded_by, created_at FROM results WHERE student_id = $1 AND course_name = $2 AND category = $3 ORDER BY created_at ASC")).
		WithArgs("s1", "Math", models.CategoryICA).
		WillReturnRows(rows)

	records, err := repo.ListByStudentSubject(context.Background(), "s1", "Math", models.CategoryICA)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Test 1", records[0].ExamLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
