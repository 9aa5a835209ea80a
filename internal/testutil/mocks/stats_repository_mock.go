package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wrongnote/internal/models"
)

// MockDailyStatRepository is a mock implementation of repository.DailyStatRepository
type MockDailyStatRepository struct {
	mock.Mock
}

func (m *MockDailyStatRepository) Apply(ctx context.Context, userID int64, day time.Time, delta models.DailyDelta) (models.DailyApplyResult, error) {
	args := m.Called(ctx, userID, day, delta)
	return args.Get(0).(models.DailyApplyResult), args.Error(1)
}

func (m *MockDailyStatRepository) Get(ctx context.Context, userID int64, day time.Time) (*models.DailyStat, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStat), args.Error(1)
}

func (m *MockDailyStatRepository) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyStat, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyStat), args.Error(1)
}

// MockGlobalStatRepository is a mock implementation of repository.GlobalStatRepository
type MockGlobalStatRepository struct {
	mock.Mock
}

func (m *MockGlobalStatRepository) ApplyDelta(ctx context.Context, delta models.GlobalDelta) (models.GlobalStat, error) {
	args := m.Called(ctx, delta)
	return args.Get(0).(models.GlobalStat), args.Error(1)
}

func (m *MockGlobalStatRepository) Get(ctx context.Context) (*models.GlobalStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlobalStat), args.Error(1)
}
