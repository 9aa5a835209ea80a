package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wrongnote/internal/models"
)

// MockExamResultRepository is a mock implementation of repository.ExamResultRepository
type MockExamResultRepository struct {
	mock.Mock
}

func (m *MockExamResultRepository) Insert(ctx context.Context, r models.ExamResultRecord) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExamResultRepository) Get(ctx context.Context, id int64) (*models.ExamResultRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamResultRecord), args.Error(1)
}

func (m *MockExamResultRepository) List(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExamResultRecord), args.Error(1)
}

// ForEach feeds the records given as the first return value to fn.
func (m *MockExamResultRepository) ForEach(ctx context.Context, filter models.ExamResultFilter, fn func(models.ExamResultRecord) error) error {
	args := m.Called(ctx, filter, fn)
	if recs, ok := args.Get(0).([]models.ExamResultRecord); ok {
		for _, r := range recs {
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockExamResultRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}
