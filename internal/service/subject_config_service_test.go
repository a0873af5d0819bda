package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

type mockSubjectConfigRepo struct {
	configs   map[string]*models.SubjectAssessmentConfig
	findCalls int
}

func (m *mockSubjectConfigRepo) FindByName(ctx context.Context, subjectName string) (*models.SubjectAssessmentConfig, error) {
	m.findCalls++
	if c, ok := m.configs[subjectName]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectConfigRepo) Upsert(ctx context.Context, config *models.SubjectAssessmentConfig) error {
	if m.configs == nil {
		m.configs = make(map[string]*models.SubjectAssessmentConfig)
	}
	m.configs[config.SubjectName] = config
	return nil
}

func (m *mockSubjectConfigRepo) List(ctx context.Context) ([]models.SubjectAssessmentConfig, error) {
	var out []models.SubjectAssessmentConfig
	for _, c := range m.configs {
		out = append(out, *c)
	}
	return out, nil
}

type mockConfigCache struct {
	entries map[string]models.SubjectAssessmentConfig
	deleted []string
	sets    int
}

func (m *mockConfigCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c, ok := m.entries[key]; ok {
		*dest.(*models.SubjectAssessmentConfig) = c
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockConfigCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]models.SubjectAssessmentConfig)
	}
	m.entries[key] = *value.(*models.SubjectAssessmentConfig)
	m.sets++
	return nil
}

func (m *mockConfigCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	delete(m.entries, pattern)
	return nil
}

func newConfigService(repo *mockSubjectConfigRepo, cache *mockConfigCache) *SubjectConfigService {
	return NewSubjectConfigService(repo, cache, nil, validator.New(), zap.NewNop(), time.Minute)
}

func TestSubjectConfigGetReadThrough(t *testing.T) {
	repo := &mockSubjectConfigRepo{configs: map[string]*models.SubjectAssessmentConfig{
		"Math": {SubjectName: "Math", ICAPolicy: models.ICAPolicyBest, ICACount: 3, InternalMax: 20, ExternalMax: 80},
	}}
	cache := &mockConfigCache{}
	svc := newConfigService(repo, cache)

	first, err := svc.Get(context.Background(), "Math")
	require.NoError(t, err)
	assert.Equal(t, models.ICAPolicyBest, first.ICAPolicy)
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Get(context.Background(), "Math")
	require.NoError(t, err)
	assert.Equal(t, first.ICACount, second.ICACount)
	assert.Equal(t, 1, repo.findCalls)
}

func TestSubjectConfigGetMissing(t *testing.T) {
	svc := newConfigService(&mockSubjectConfigRepo{}, &mockConfigCache{})

	_, err := svc.Get(context.Background(), "Basket Weaving")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectConfigGetWithoutCache(t *testing.T) {
	repo := &mockSubjectConfigRepo{configs: map[string]*models.SubjectAssessmentConfig{
		"Math": {SubjectName: "Math", ICAPolicy: models.ICAPolicyAverage, ICACount: 2},
	}}
	svc := NewSubjectConfigService(repo, nil, nil, validator.New(), zap.NewNop(), time.Minute)

	config, err := svc.Get(context.Background(), "Math")
	require.NoError(t, err)
	assert.Equal(t, models.ICAPolicyAverage, config.ICAPolicy)
}

func TestSubjectConfigUpsertInvalidatesCache(t *testing.T) {
	repo := &mockSubjectConfigRepo{}
	cache := &mockConfigCache{}
	svc := newConfigService(repo, cache)

	config, err := svc.Upsert(context.Background(), "Math", UpsertSubjectConfigRequest{
		InternalMax: 20, ExternalMax: 80, ICAPolicy: models.ICAPolicyBest, ICACount: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Math", config.SubjectName)
	assert.Contains(t, cache.deleted, "subject-config:Math")

	stored, err := svc.Get(context.Background(), "Math")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.ICACount)
}

func TestSubjectConfigUpsertValidation(t *testing.T) {
	svc := newConfigService(&mockSubjectConfigRepo{}, &mockConfigCache{})

	cases := []struct {
		name string
		req  UpsertSubjectConfigRequest
	}{
		{"missing policy", UpsertSubjectConfigRequest{ICACount: 2}},
		{"unknown policy", UpsertSubjectConfigRequest{ICAPolicy: "median", ICACount: 2}},
		{"zero attempts", UpsertSubjectConfigRequest{ICAPolicy: models.ICAPolicyBest}},
		{"too many attempts", UpsertSubjectConfigRequest{ICAPolicy: models.ICAPolicyBest, ICACount: 9}},
		{"internal max out of range", UpsertSubjectConfigRequest{ICAPolicy: models.ICAPolicyBest, ICACount: 2, InternalMax: 150}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), "Math", tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestSubjectConfigUpsertRequiresSubjectName(t *testing.T) {
	svc := newConfigService(&mockSubjectConfigRepo{}, &mockConfigCache{})

	_, err := svc.Upsert(context.Background(), "", UpsertSubjectConfigRequest{ICAPolicy: models.ICAPolicyBest, ICACount: 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
