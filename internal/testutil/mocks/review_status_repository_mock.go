package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
)

// MockReviewStatusRepository is a mock implementation of repository.ReviewStatusRepository
type MockReviewStatusRepository struct {
	mock.Mock
}

// RecordAttempt applies next to the status given as the first return value,
// standing in for the row the real implementation reads back.
func (m *MockReviewStatusRepository) RecordAttempt(ctx context.Context, userID, questionID int64, isCorrect bool, next repository.ReviewTransition) (models.ReviewStatus, error) {
	args := m.Called(ctx, userID, questionID, isCorrect, next)
	if err := args.Error(1); err != nil {
		return models.ReviewStatus{}, err
	}
	return next(args.Get(0).(models.ReviewStatus)), nil
}

// SetStatus applies next to the status given as the first return value.
func (m *MockReviewStatusRepository) SetStatus(ctx context.Context, userID, questionID int64, next repository.ReviewTransition) (models.ReviewStatus, error) {
	args := m.Called(ctx, userID, questionID, next)
	if err := args.Error(1); err != nil {
		return models.ReviewStatus{}, err
	}
	return next(args.Get(0).(models.ReviewStatus)), nil
}

func (m *MockReviewStatusRepository) Get(ctx context.Context, userID, questionID int64) (*models.ReviewStatus, error) {
	args := m.Called(ctx, userID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewStatus), args.Error(1)
}

func (m *MockReviewStatusRepository) ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ReviewStatus, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewStatus), args.Error(1)
}
