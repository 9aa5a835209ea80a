package services_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/services"
	"github.com/vytor/wrongnote/internal/testutil/mocks"
)

func newDailyService(loc *time.Location) (services.DailyStatsService, *mocks.MockDailyStatRepository, *mocks.MockGlobalStatRepository) {
	dailyRepo := new(mocks.MockDailyStatRepository)
	globalRepo := new(mocks.MockGlobalStatRepository)
	svc := services.NewDailyStatsService(dailyRepo, services.NewGlobalStatsService(globalRepo), loc)
	return svc, dailyRepo, globalRepo
}

func TestApplyExamResult_ZeroTotalsIsNoop(t *testing.T) {
	svc, dailyRepo, globalRepo := newDailyService(time.UTC)

	res, err := svc.ApplyExamResult(ctx(), 1, time.Now(), 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.DailyApplyResult{}, res)

	res, err = svc.ApplyExamResult(ctx(), 1, time.Now(), -5, -1, -10)
	require.NoError(t, err)
	assert.Equal(t, models.DailyApplyResult{}, res)

	dailyRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	globalRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything)
}

func TestApplyExamResult_NewRecordPropagates(t *testing.T) {
	svc, dailyRepo, globalRepo := newDailyService(time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	delta := models.DailyDelta{Solved: 10, Correct: 8, StudyTime: 60}

	dailyRepo.On("Apply", mock.Anything, int64(1), day, delta).Return(models.DailyApplyResult{
		Stat:        models.DailyStat{UserID: 1, Date: day, SolvedCount: 10, CorrectCount: 8, TotalStudyTime: 60, Streak: 1},
		IsNewRecord: true,
	}, nil)
	globalRepo.On("ApplyDelta", mock.Anything, models.GlobalDelta{UserCount: 1, StudyTime: 60, Solved: 10, Correct: 8, Streak: 1}).
		Return(models.GlobalStat{TotalUsers: 1, Version: 1}, nil)

	res, err := svc.ApplyExamResult(ctx(), 1, day.Add(15*time.Hour), 10, 8, 60)
	require.NoError(t, err)
	assert.True(t, res.IsNewRecord)

	dailyRepo.AssertExpectations(t)
	globalRepo.AssertExpectations(t)
}

func TestApplyExamResult_UnchangedStreakDoesNotPropagate(t *testing.T) {
	svc, dailyRepo, globalRepo := newDailyService(time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	dailyRepo.On("Apply", mock.Anything, int64(1), day, mock.Anything).Return(models.DailyApplyResult{
		Stat:      models.DailyStat{UserID: 1, Date: day, SolvedCount: 20, Streak: 2},
		OldStreak: 2,
	}, nil)

	_, err := svc.ApplyExamResult(ctx(), 1, day, 10, 8, 60)
	require.NoError(t, err)
	globalRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything)
}

func TestApplyExamResult_StreakChangePropagatesDeltaOnly(t *testing.T) {
	svc, dailyRepo, globalRepo := newDailyService(time.UTC)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	dailyRepo.On("Apply", mock.Anything, int64(1), day, mock.Anything).Return(models.DailyApplyResult{
		Stat: models.DailyStat{UserID: 1, Date: day, SolvedCount: 10, Streak: 2},
	}, nil)
	globalRepo.On("ApplyDelta", mock.Anything, models.GlobalDelta{StudyTime: 60, Solved: 10, Correct: 8, Streak: 2}).
		Return(models.GlobalStat{}, nil)

	_, err := svc.ApplyExamResult(ctx(), 1, day, 10, 8, 60)
	require.NoError(t, err)
	globalRepo.AssertExpectations(t)
}

func TestApplyExamResult_ClampsCorrectToSolved(t *testing.T) {
	svc, dailyRepo, _ := newDailyService(time.UTC)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	dailyRepo.On("Apply", mock.Anything, int64(1), day, models.DailyDelta{Solved: 5, Correct: 5, StudyTime: 0}).
		Return(models.DailyApplyResult{Stat: models.DailyStat{Streak: 1}, OldStreak: 1}, nil)

	_, err := svc.ApplyExamResult(ctx(), 1, day, 5, 9, -3)
	require.NoError(t, err)
	dailyRepo.AssertExpectations(t)
}

func TestApplyExamResult_UsesConfiguredCalendar(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	svc, dailyRepo, _ := newDailyService(seoul)

	// 23:30 UTC on Jan 1 is Jan 2 in Seoul
	examDate := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	dailyRepo.On("Apply", mock.Anything, int64(1), want, mock.Anything).
		Return(models.DailyApplyResult{Stat: models.DailyStat{Streak: 1}, OldStreak: 1}, nil)

	_, err = svc.ApplyExamResult(ctx(), 1, examDate, 1, 1, 1)
	require.NoError(t, err)
	dailyRepo.AssertExpectations(t)
}

func TestApplyExamResult_StorageErrors(t *testing.T) {
	svc, dailyRepo, globalRepo := newDailyService(time.UTC)
	dailyRepo.On("Apply", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(models.DailyApplyResult{}, stderrors.New("disk full")).Once()

	_, err := svc.ApplyExamResult(ctx(), 1, time.Now(), 1, 1, 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, errors.As(err).Code)

	dailyRepo.On("Apply", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return(models.DailyApplyResult{IsNewRecord: true, Stat: models.DailyStat{Streak: 1}}, nil)
	globalRepo.On("ApplyDelta", mock.Anything, mock.Anything).Return(models.GlobalStat{}, stderrors.New("locked"))

	res, err := svc.ApplyExamResult(ctx(), 1, time.Now(), 1, 1, 1)
	require.Error(t, err)
	assert.True(t, res.IsNewRecord)
}

func TestApplyExamResult_RejectsInvalidUser(t *testing.T) {
	svc, _, _ := newDailyService(time.UTC)
	_, err := svc.ApplyExamResult(ctx(), 0, time.Now(), 1, 1, 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.As(err).Code)
}

func TestGetUserDailyStats(t *testing.T) {
	svc, dailyRepo, _ := newDailyService(time.UTC)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	dailyRepo.On("ListRange", mock.Anything, int64(1), from, to).Return(nil, nil)

	rows, err := svc.GetUserDailyStats(ctx(), 1, from, to)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, err = svc.GetUserDailyStats(ctx(), 1, to, from)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBadRequest, errors.As(err).Code)
}
