package services

import (
	"context"
	"time"

	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
)

// ExamResultService handles exam-result ingestion and history access
type ExamResultService interface {
	SubmitExamResult(ctx context.Context, rec models.ExamResultRecord) (*models.ExamResultRecord, error)
	GetExamResult(ctx context.Context, id int64) (*models.ExamResultRecord, error)
	ListExamResults(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultRecord, error)
	DeleteExamResult(ctx context.Context, userID, id int64) error
}

type examResultService struct {
	examRepo repository.ExamResultRepository
	daily    DailyStatsService
	now      func() time.Time
}

// NewExamResultService creates a new ExamResultService
func NewExamResultService(examRepo repository.ExamResultRepository, daily DailyStatsService, now func() time.Time) ExamResultService {
	if now == nil {
		now = time.Now
	}
	return &examResultService{examRepo: examRepo, daily: daily, now: now}
}

// SubmitExamResult stores the record and then updates the daily aggregates.
// Aggregate failures are logged and never fail the submission.
func (s *examResultService) SubmitExamResult(ctx context.Context, rec models.ExamResultRecord) (*models.ExamResultRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("exam_results")
	log.Info("submitting exam result: user_id=%d, exam=%s", rec.UserID, rec.ExamName)

	if rec.UserID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}
	if rec.ExamName == "" {
		return nil, errors.NewValidationError("exam_name", "is required")
	}

	rec.CreatedAt = s.now().UTC().Truncate(time.Second)
	if rec.ExamDate.IsZero() {
		rec.ExamDate = rec.CreatedAt
	}

	id, err := s.examRepo.Insert(ctx, rec)
	if err != nil {
		log.Error("failed to insert exam result: %v", err)
		return nil, errors.NewInternalError(err)
	}
	rec.ID = id

	if _, err := s.daily.ApplyExamResult(ctx, rec.UserID, rec.ExamDate, rec.TotalQuestions, rec.CorrectCount, rec.ElapsedTime); err != nil {
		log.Warn("failed to update statistics for exam result %d: %v", id, err)
	}

	return &rec, nil
}

func (s *examResultService) GetExamResult(ctx context.Context, id int64) (*models.ExamResultRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("exam_results")

	rec, err := s.examRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get exam result: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("exam result", id)
	}
	return rec, nil
}

func (s *examResultService) ListExamResults(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("exam_results")

	if filter.UserID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}

	recs, err := s.examRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list exam results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if recs == nil {
		recs = []models.ExamResultRecord{}
	}
	return recs, nil
}

// DeleteExamResult removes one of the user's records. Aggregates are left as
// they are.
func (s *examResultService) DeleteExamResult(ctx context.Context, userID, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("exam_results")
	log.Info("deleting exam result: user_id=%d, id=%d", userID, id)

	ok, err := s.examRepo.Delete(ctx, userID, id)
	if err != nil {
		log.Error("failed to delete exam result: %v", err)
		return errors.NewInternalError(err)
	}
	if !ok {
		return errors.NewNotFoundError("exam result", id)
	}
	return nil
}
