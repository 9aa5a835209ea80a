package services_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository/sqlite"
	"github.com/vytor/wrongnote/internal/services"
	"github.com/vytor/wrongnote/internal/testutil"
	"github.com/vytor/wrongnote/internal/testutil/mocks"
)

func TestGetUserSummary_PersistedFirst(t *testing.T) {
	examRepo := new(mocks.MockExamResultRepository)
	dailyRepo := new(mocks.MockDailyStatRepository)
	svc := services.NewSummaryService(examRepo, dailyRepo, new(mocks.MockGlobalStatRepository), time.UTC)

	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dailyRepo.On("ListRange", mock.Anything, int64(1), time.Time{}, time.Time{}).Return([]models.DailyStat{
		{UserID: 1, Date: d1, SolvedCount: 10, CorrectCount: 5, TotalStudyTime: 100, Streak: 1},
		{UserID: 1, Date: d1.AddDate(0, 0, 1), SolvedCount: 10, CorrectCount: 10, TotalStudyTime: 50, Streak: 2},
	}, nil)

	sum, err := svc.GetUserSummary(ctx(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.SourcePersisted, sum.Source)
	assert.Equal(t, 20, sum.TotalSolved)
	assert.InDelta(t, 0.75, sum.CorrectRate, 1e-9)
	assert.Equal(t, 2, sum.CurrentStreak)
	assert.Equal(t, 2, sum.ActiveDays)
	examRepo.AssertNotCalled(t, "ForEach", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetUserSummary_NoHistoryIsZero(t *testing.T) {
	examRepo := new(mocks.MockExamResultRepository)
	dailyRepo := new(mocks.MockDailyStatRepository)
	svc := services.NewSummaryService(examRepo, dailyRepo, new(mocks.MockGlobalStatRepository), time.UTC)

	dailyRepo.On("ListRange", mock.Anything, int64(3), time.Time{}, time.Time{}).Return(nil, nil)
	examRepo.On("ForEach", mock.Anything, models.ExamResultFilter{UserID: 3}, mock.Anything).Return(nil, nil)

	sum, err := svc.GetUserSummary(ctx(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.UserSummary{UserID: 3, Source: models.SourceDerived}, sum)
	examRepo.AssertExpectations(t)
}

func TestGetGlobalSummary_ReplayError(t *testing.T) {
	examRepo := new(mocks.MockExamResultRepository)
	globalRepo := new(mocks.MockGlobalStatRepository)
	svc := services.NewSummaryService(examRepo, new(mocks.MockDailyStatRepository), globalRepo, time.UTC)

	globalRepo.On("Get", mock.Anything).Return(nil, nil)
	examRepo.On("ForEach", mock.Anything, models.ExamResultFilter{}, mock.Anything).Return(nil, stderrors.New("io"))

	_, err := svc.GetGlobalSummary(ctx())
	require.Error(t, err)
}

func TestGetSubjectBreakdown(t *testing.T) {
	examRepo := new(mocks.MockExamResultRepository)
	svc := services.NewSummaryService(examRepo, new(mocks.MockDailyStatRepository), new(mocks.MockGlobalStatRepository), time.UTC)

	examRepo.On("List", mock.Anything, models.ExamResultFilter{UserID: 1}).Return([]models.ExamResultRecord{
		{SubjectStats: map[string]models.SubjectStat{"math": {Total: 10, Correct: 5}, "korean": {Total: 4, Correct: 4}}},
		{SubjectStats: map[string]models.SubjectStat{"math": {Total: 10, Correct: 10}}},
	}, nil)

	rows, err := svc.GetSubjectBreakdown(ctx(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "korean", rows[0].Subject)
	assert.Equal(t, models.SubjectBreakdown{Subject: "math", Total: 20, Correct: 15, CorrectRate: 0.75}, rows[1])
}

// AggregationSuite runs the services over a real database.
type AggregationSuite struct {
	suite.Suite
	summary services.SummaryService
	exams   services.ExamResultService
	now     time.Time
	clean   func()
}

func (s *AggregationSuite) SetupTest() {
	db := testutil.NewTestDB(s.T())
	s.clean = func() {
		_, err := db.Exec(`DELETE FROM daily_stats; DELETE FROM global_stats;`)
		s.Require().NoError(err)
	}
	s.T().Cleanup(func() { testutil.MustClose(s.T(), db) })

	examRepo := sqlite.NewExamResultRepository(db)
	dailyRepo := sqlite.NewDailyStatRepository(db)
	globalRepo := sqlite.NewGlobalStatRepository(db)

	s.now = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	daily := services.NewDailyStatsService(dailyRepo, services.NewGlobalStatsService(globalRepo), time.UTC)
	s.exams = services.NewExamResultService(examRepo, daily, func() time.Time {
		s.now = s.now.Add(time.Second)
		return s.now
	})
	s.summary = services.NewSummaryService(examRepo, dailyRepo, globalRepo, time.UTC)
}

func (s *AggregationSuite) submit(userID int64, day string, total, correct, elapsed int) {
	date, err := time.Parse(models.DateLayout, day)
	s.Require().NoError(err)
	_, err = s.exams.SubmitExamResult(ctx(), models.ExamResultRecord{
		UserID: userID, ExamName: "daily", ExamDate: date.Add(12 * time.Hour),
		TotalQuestions: total, CorrectCount: correct, ElapsedTime: elapsed,
	})
	s.Require().NoError(err)
}

func (s *AggregationSuite) TestThreeConsecutiveDays() {
	var versions []int64
	var streaks []int64
	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		s.submit(1, day, 10, 8, 60)
		g, err := s.summary.GetGlobalSummary(ctx())
		s.Require().NoError(err)
		versions = append(versions, g.Version)
		streaks = append(streaks, g.TotalStreak)
		s.Assert().Equal(1, g.TotalUsers)
	}
	s.Assert().Equal([]int64{1, 2, 3}, versions)
	s.Assert().Equal([]int64{1, 3, 6}, streaks)

	sum, err := s.summary.GetUserSummary(ctx(), 1)
	s.Require().NoError(err)
	s.Assert().Equal(3, sum.CurrentStreak)
	s.Assert().Equal(30, sum.TotalSolved)
	s.Assert().Equal(24, sum.TotalCorrect)
}

func (s *AggregationSuite) TestDerivedMatchesPersisted() {
	s.submit(1, "2024-01-01", 10, 8, 60)
	s.submit(1, "2024-01-01", 5, 5, 30)
	s.submit(2, "2024-01-01", 20, 3, 300)
	s.submit(1, "2024-01-02", 7, 1, 45)
	s.submit(1, "2024-01-04", 3, 0, 10)
	s.submit(2, "2024-01-03", 0, 0, 0)
	s.submit(2, "2024-01-02", 11, 11, 11)

	persistedUser, err := s.summary.GetUserSummary(ctx(), 1)
	s.Require().NoError(err)
	persistedGlobal, err := s.summary.GetGlobalSummary(ctx())
	s.Require().NoError(err)
	s.Require().Equal(models.SourcePersisted, persistedGlobal.Source)

	s.clean()

	derivedUser, err := s.summary.GetUserSummary(ctx(), 1)
	s.Require().NoError(err)
	derivedGlobal, err := s.summary.GetGlobalSummary(ctx())
	s.Require().NoError(err)

	s.Assert().Equal(models.SourceDerived, derivedUser.Source)
	derivedUser.Source = persistedUser.Source
	s.Assert().Equal(persistedUser, derivedUser)

	s.Assert().Equal(models.SourceDerived, derivedGlobal.Source)
	persistedGlobal.UpdatedAt = time.Time{}
	persistedGlobal.Source = derivedGlobal.Source
	s.Assert().Equal(persistedGlobal, derivedGlobal)
}

func TestAggregationSuite(t *testing.T) {
	suite.Run(t, new(AggregationSuite))
}
