package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

const subjectConfigKeyPrefix = "subject-config:"

type subjectConfigRepo interface {
	FindByName(ctx context.Context, subjectName string) (*models.SubjectAssessmentConfig, error)
	Upsert(ctx context.Context, config *models.SubjectAssessmentConfig) error
	List(ctx context.Context) ([]models.SubjectAssessmentConfig, error)
}

type configCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheObserver interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// UpsertSubjectConfigRequest is the admin payload for a subject's policy.
type UpsertSubjectConfigRequest struct {
	InternalMax      int              `json:"internal_max" validate:"min=0,max=100"`
	ExternalMax      int              `json:"external_max" validate:"min=0,max=100"`
	ICAPolicy        models.ICAPolicy `json:"ica_policy" validate:"required,oneof=best average"`
	ICACount         int              `json:"ica_count" validate:"required,min=1,max=5"`
	OtherInternalMax int              `json:"other_internal_max" validate:"min=0,max=100"`
}

// SubjectConfigService serves subject assessment configurations with a
// read-through cache keyed per subject name.
type SubjectConfigService struct {
	repo      subjectConfigRepo
	cache     configCache
	metrics   cacheObserver
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewSubjectConfigService constructs SubjectConfigService. cache and metrics
// may be nil.
func NewSubjectConfigService(repo subjectConfigRepo, cache configCache, metrics cacheObserver, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *SubjectConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &SubjectConfigService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// Get returns the active configuration for a subject name.
func (s *SubjectConfigService) Get(ctx context.Context, subjectName string) (*models.SubjectAssessmentConfig, error) {
	if subjectName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject name required")
	}

	key := subjectConfigKeyPrefix + subjectName
	if s.cache != nil {
		start := time.Now()
		var cached models.SubjectAssessmentConfig
		err := s.cache.Get(ctx, key, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("subject config cache read failed", zap.String("subject", subjectName), zap.Error(err))
		}
	}

	config, err := s.repo.FindByName(ctx, subjectName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no assessment configuration for subject "+subjectName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject configuration")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, config, s.cacheTTL); err != nil {
			s.logger.Warn("subject config cache write failed", zap.String("subject", subjectName), zap.Error(err))
		}
	}
	return config, nil
}

// List returns all subject configurations, uncached.
func (s *SubjectConfigService) List(ctx context.Context) ([]models.SubjectAssessmentConfig, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject configurations")
	}
	return configs, nil
}

// Upsert creates or replaces the single active configuration for a subject
// and invalidates its cache entry.
func (s *SubjectConfigService) Upsert(ctx context.Context, subjectName string, req UpsertSubjectConfigRequest) (*models.SubjectAssessmentConfig, error) {
	if subjectName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject name required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject configuration payload")
	}

	config := &models.SubjectAssessmentConfig{
		SubjectName:      subjectName,
		InternalMax:      req.InternalMax,
		ExternalMax:      req.ExternalMax,
		ICAPolicy:        req.ICAPolicy,
		ICACount:         req.ICACount,
		OtherInternalMax: req.OtherInternalMax,
	}
	if err := s.repo.Upsert(ctx, config); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store subject configuration")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, subjectConfigKeyPrefix+subjectName); err != nil {
			s.logger.Warn("subject config cache invalidation failed", zap.String("subject", subjectName), zap.Error(err))
		}
	}
	return config, nil
}
