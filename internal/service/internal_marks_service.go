package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/acadrec-api/internal/models"
	appErrors "github.com/noah-isme/acadrec-api/pkg/errors"
)

const (
	theoryScale    = 20
	practicalScale = 10

	theoryMarker    = "test"
	practicalMarker = "practical"
)

type studentSubjectResults interface {
	ListByStudentSubject(ctx context.Context, studentID, subjectName string, category models.ExamCategory) ([]models.ResultRecord, error)
}

type assessmentConfigProvider interface {
	Get(ctx context.Context, subjectName string) (*models.SubjectAssessmentConfig, error)
}

// InternalMarksService folds a student's ICA attempts for one subject into a
// single internal score under the subject's configured policy. The persisted
// subject assessment configuration is the only policy source.
type InternalMarksService struct {
	results studentSubjectResults
	configs assessmentConfigProvider
	logger  *zap.Logger
}

// NewInternalMarksService constructs InternalMarksService.
func NewInternalMarksService(results studentSubjectResults, configs assessmentConfigProvider, logger *zap.Logger) *InternalMarksService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InternalMarksService{results: results, configs: configs, logger: logger}
}

// ComputeInternalScore derives the internal score for one student and
// subject. A subject without configuration and a student without theory
// attempts are both reported as typed errors, never as a zero score.
func (s *InternalMarksService) ComputeInternalScore(ctx context.Context, studentID, subjectName string) (*models.InternalScore, error) {
	if studentID == "" || subjectName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id and subject name required")
	}

	config, err := s.configs.Get(ctx, subjectName)
	if err != nil {
		// Missing configuration is a refusal to guess a policy, not a
		// missing resource on this endpoint.
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrNotFound.Code {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no assessment configuration for subject "+subjectName)
		}
		return nil, err
	}

	// Records arrive ordered earliest-submitted-first; the icaCount cut below
	// relies on that ordering.
	records, err := s.results.ListByStudentSubject(ctx, studentID, subjectName, models.CategoryICA)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessment attempts")
	}

	var theory []float64
	var practical *float64
	for _, rec := range records {
		label := strings.ToLower(rec.ExamLabel)
		switch {
		case strings.Contains(label, practicalMarker):
			if practical == nil {
				v := normalize(rec.Marks, rec.TotalMarks, practicalScale)
				practical = &v
			}
		case strings.Contains(label, theoryMarker):
			theory = append(theory, normalize(rec.Marks, rec.TotalMarks, theoryScale))
		}
	}

	if len(theory) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no internal assessment attempts recorded for "+subjectName)
	}

	attempts := theory
	if len(attempts) > config.ICACount {
		attempts = attempts[:config.ICACount]
	}

	var folded float64
	switch config.ICAPolicy {
	case models.ICAPolicyBest:
		folded = attempts[0]
		for _, v := range attempts[1:] {
			if v > folded {
				folded = v
			}
		}
	case models.ICAPolicyAverage:
		sum := 0.0
		for _, v := range attempts {
			sum += v
		}
		folded = sum / float64(len(attempts))
	default:
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "unsupported ICA policy "+string(config.ICAPolicy))
	}

	score := &models.InternalScore{
		StudentID:   studentID,
		SubjectName: subjectName,
		Theory:      roundHalfUp(folded),
		Policy:      config.ICAPolicy,
		Attempts:    len(attempts),
	}
	if practical != nil {
		v := roundHalfUp(*practical)
		score.Practical = &v
	}
	return score, nil
}

func normalize(marks, total, scale float64) float64 {
	if total <= 0 {
		return 0
	}
	v := marks / total * scale
	if v < 0 {
		return 0
	}
	if v > scale {
		return scale
	}
	return v
}
