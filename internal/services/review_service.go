package services

import (
	"context"
	"time"

	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
	"github.com/vytor/wrongnote/internal/review"
)

// ReviewService drives the wrong-note review workflow
type ReviewService interface {
	// RecordReviewAttempt records one attempt on a question. A non-nil explicit
	// status overrides the computed state.
	RecordReviewAttempt(ctx context.Context, userID, questionID int64, isCorrect bool, explicit *models.ReviewState) (models.ReviewStatus, error)
	SetReviewStatus(ctx context.Context, userID, questionID int64, status models.ReviewState) (models.ReviewStatus, error)
	GetReviewStatus(ctx context.Context, userID, questionID int64) (models.ReviewStatus, error)
	ListDueReviews(ctx context.Context, userID int64, limit int) ([]models.ReviewStatus, error)
}

type reviewService struct {
	reviewRepo repository.ReviewStatusRepository
	now        func() time.Time
}

// NewReviewService creates a new ReviewService. A nil now uses time.Now.
func NewReviewService(reviewRepo repository.ReviewStatusRepository, now func() time.Time) ReviewService {
	if now == nil {
		now = time.Now
	}
	return &reviewService{reviewRepo: reviewRepo, now: now}
}

func validatePair(userID, questionID int64) error {
	if userID <= 0 {
		return errors.NewValidationError("user_id", "must be positive")
	}
	if questionID <= 0 {
		return errors.NewValidationError("question_id", "must be positive")
	}
	return nil
}

func (s *reviewService) RecordReviewAttempt(ctx context.Context, userID, questionID int64, isCorrect bool, explicit *models.ReviewState) (models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	log.Debug("recording review attempt: user_id=%d, question_id=%d, correct=%t", userID, questionID, isCorrect)

	if err := validatePair(userID, questionID); err != nil {
		return models.ReviewStatus{}, err
	}
	if explicit != nil && !explicit.Valid() {
		return models.ReviewStatus{}, errors.NewValidationError("review_status", "must be 0, 1 or 2")
	}

	now := s.now()
	st, err := s.reviewRepo.RecordAttempt(ctx, userID, questionID, isCorrect, func(cur models.ReviewStatus) models.ReviewStatus {
		// counters already include this attempt
		return review.Reschedule(cur, explicit, now)
	})
	if err != nil {
		log.Error("failed to record review attempt: %v", err)
		return models.ReviewStatus{}, errors.NewInternalError(err)
	}

	log.Debug("review state: status=%s, correct_retries=%d, next=%v", st.Status, st.CorrectRetryCount, st.NextReviewDate)
	return st, nil
}

func (s *reviewService) SetReviewStatus(ctx context.Context, userID, questionID int64, status models.ReviewState) (models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	log.Debug("setting review status: user_id=%d, question_id=%d, status=%s", userID, questionID, status)

	if err := validatePair(userID, questionID); err != nil {
		return models.ReviewStatus{}, err
	}
	if !status.Valid() {
		return models.ReviewStatus{}, errors.NewValidationError("review_status", "must be 0, 1 or 2")
	}

	st, err := s.reviewRepo.SetStatus(ctx, userID, questionID, func(cur models.ReviewStatus) models.ReviewStatus {
		return review.SetStatus(cur, status)
	})
	if err != nil {
		log.Error("failed to set review status: %v", err)
		return models.ReviewStatus{}, errors.NewInternalError(err)
	}
	return st, nil
}

// GetReviewStatus returns the stored state, or a NotStarted zero value for a
// pair that was never reviewed.
func (s *reviewService) GetReviewStatus(ctx context.Context, userID, questionID int64) (models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review")

	if err := validatePair(userID, questionID); err != nil {
		return models.ReviewStatus{}, err
	}

	st, err := s.reviewRepo.Get(ctx, userID, questionID)
	if err != nil {
		log.Error("failed to get review status: %v", err)
		return models.ReviewStatus{}, errors.NewInternalError(err)
	}
	if st == nil {
		return models.ReviewStatus{UserID: userID, QuestionID: questionID, Status: models.ReviewNotStarted}, nil
	}
	return *st, nil
}

func (s *reviewService) ListDueReviews(ctx context.Context, userID int64, limit int) ([]models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review")

	if userID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}

	due, err := s.reviewRepo.ListDue(ctx, userID, s.now(), limit)
	if err != nil {
		log.Error("failed to list due reviews: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if due == nil {
		due = []models.ReviewStatus{}
	}
	return due, nil
}
