package repository

import (
	"context"
	"database/sql"
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

func newSubjectConfigMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubjectConfigRepositoryFindByName(t *testing.T) {
	db, mock, cleanup := newSubjectConfigMock(t)
	defer cleanup()
	repo := NewSubjectConfigRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subject_name", "internal_max", "external_max", "ica_policy", "ica_count", "other_internal_max", "created_at", "updated_at"}).
		AddRow("cfg1", "Math", 20, 80, "best", 3, 0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subject_name, internal_max, external_max, ica_policy, ica_count, other_internal_max, created_at, updated_at FROM subject_assessment_configs WHERE subject_name = $1")).
		WithArgs("Math").
		WillReturnRows(rows)

	config, err := repo.FindByName(context.Background(), "Math")
	require.NoError(t, err)
	assert.Equal(t, models.ICAPolicyBest, config.ICAPolicy)
	assert.Equal(t, 3, config.ICACount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectConfigRepositoryFindByNameMissing(t *testing.T) {
	db, mock, cleanup := newSubjectConfigMock(t)
	defer cleanup()
	repo := NewSubjectConfigRepository(db)

	mock.ExpectQuery("SELECT .+ FROM subject_assessment_configs").
		WithArgs("Basket Weaving").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByName(context.Background(), "Basket Weaving")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectConfigRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSubjectConfigMock(t)
	defer cleanup()
	repo := NewSubjectConfigRepository(db)

	mock.ExpectExec("INSERT INTO subject_assessment_configs").
		WithArgs(sqlmock.AnyArg(), "Math", 20, 80, "average", 2, 10, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	config := &models.SubjectAssessmentConfig{SubjectName: "Math", InternalMax: 20, ExternalMax: 80, ICAPolicy: models.ICAPolicyAverage, ICACount: 2, OtherInternalMax: 10}
	err := repo.Upsert(context.Background(), config)
	require.NoError(t, err)
	assert.NotEmpty(t, config.ID)
	assert.False(t, config.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectConfigRepositoryList(t *testing.T) {
	db, mock, cleanup := newSubjectConfigMock(t)
	defer cleanup()
	repo := NewSubjectConfigRepository(db)

	rows := sqlmock.NewRows([]string{"id", "subject_name", "internal_max", "external_max", "ica_policy", "ica_count", "other_internal_max", "created_at", "updated_at"}).
		AddRow("cfg1", "Math", 20, 80, "best", 3, 0, time.Now(), time.Now()).
		AddRow("cfg2", "Physics", 20, 80, "average", 2, 10, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, subject_name, internal_max, external_max, ica_policy, ica_count, other_internal_max, created_at, updated_at FROM subject_assessment_configs ORDER BY subject_name")).
		WillReturnRows(rows)

	configs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, configs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
