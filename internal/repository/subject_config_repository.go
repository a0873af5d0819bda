package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/acadrec-api/internal/models"
)

// SubjectConfigRepository manages subject assessment configuration persistence.
type SubjectConfigRepository struct {
	db *sqlx.DB
}

// NewSubjectConfigRepository creates a new repository instance.
func NewSubjectConfigRepository(db *sqlx.DB) *SubjectConfigRepository {
	return &SubjectConfigRepository{db: db}
}

const subjectConfigColumns = "id, subject_name, internal_max, external_max, ica_policy, ica_count, other_internal_max, created_at, updated_at"

// FindByName returns the active configuration for a subject name.
func (r *SubjectConfigRepository) FindByName(ctx context.Context, subjectName string) (*models.SubjectAssessmentConfig, error) {
	query := fmt.Sprintf("SELECT %s FROM subject_assessment_configs WHERE subject_name = $1", subjectConfigColumns)
	var config models.SubjectAssessmentConfig
	if err := r.db.GetContext(ctx, &config, query, subjectName); err != nil {
		return nil, err
	}
	return &config, nil
}

// List returns all subject configurations ordered by subject name.
func (r *SubjectConfigRepository) List(ctx context.Context) ([]models.SubjectAssessmentConfig, error) {
	query := fmt.Sprintf("SELECT %s FROM subject_assessment_configs ORDER BY subject_name", subjectConfigColumns)
	var configs []models.SubjectAssessmentConfig
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("list subject configs: %w", err)
	}
	return configs, nil
}

// Upsert inserts or replaces the single configuration for a subject name.
func (r *SubjectConfigRepository) Upsert(ctx context.Context, config *models.SubjectAssessmentConfig) error {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
	}
	config.UpdatedAt = now
	const query = `INSERT INTO subject_assessment_configs (id, subject_name, internal_max, external_max, ica_policy, ica_count, other_internal_max, created_at, updated_at)
        VALUES (:id, :subject_name, :internal_max, :external_max, :ica_policy, :ica_count, :other_internal_max, :created_at, :updated_at)
        ON CONFLICT (subject_name)
        DO UPDATE SET internal_max = EXCLUDED.internal_max, external_max = EXCLUDED.external_max, ica_policy = EXCLUDED.ica_policy,
            ica_count = EXCLUDED.ica_count, other_internal_max = EXCLUDED.other_internal_max, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, config); err != nil {
		return fmt.Errorf("upsert subject config: %w", err)
	}
	return nil
}
