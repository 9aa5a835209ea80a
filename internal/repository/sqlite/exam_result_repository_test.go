package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
	"github.com/vytor/wrongnote/internal/repository/sqlite"
	"github.com/vytor/wrongnote/internal/testutil"
)

type ExamResultRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ExamResultRepository
}

func (s *ExamResultRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewExamResultRepository(s.db)
}

func (s *ExamResultRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func examRecord(userID int64, name string, createdAt time.Time) models.ExamResultRecord {
	return models.ExamResultRecord{
		UserID:         userID,
		ExamName:       name,
		ExamDate:       createdAt,
		ExamSubject:    "math",
		Score:          80,
		CorrectCount:   4,
		TotalQuestions: 5,
		ElapsedTime:    600,
		Answers: []models.QuestionAnswer{
			{QuestionID: 1, SelectedOption: 2, IsCorrect: true, Tags: []string{"algebra"}},
			{QuestionID: 2, SelectedOption: 1, IsCorrect: false, Tags: []string{"geometry", "angles"}},
		},
		SubjectStats: map[string]models.SubjectStat{"math": {Total: 5, Correct: 4}},
		CreatedAt:    createdAt,
	}
}

func (s *ExamResultRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	created := time.Date(2024, 3, 10, 9, 30, 15, 500, time.UTC)

	id, err := s.repo.Insert(ctx, examRecord(7, "midterm", created))
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(id, got.ID)
	s.Assert().Equal(int64(7), got.UserID)
	s.Assert().Equal("midterm", got.ExamName)
	s.Assert().Equal(5, got.TotalQuestions)
	s.Assert().Len(got.Answers, 2)
	s.Assert().Equal([]string{"geometry", "angles"}, got.Answers[1].Tags)
	s.Assert().Equal(models.SubjectStat{Total: 5, Correct: 4}, got.SubjectStats["math"])
	s.Assert().True(got.CreatedAt.Equal(created.Truncate(time.Second)))
}

func (s *ExamResultRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 99999)
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func (s *ExamResultRepositorySuite) TestInsert_NilCollections() {
	ctx := context.Background()
	rec := examRecord(1, "quiz", time.Now())
	rec.Answers = nil
	rec.SubjectStats = nil

	id, err := s.repo.Insert(ctx, rec)
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Empty(got.Answers)
	s.Assert().Empty(got.SubjectStats)
}

func (s *ExamResultRepositorySuite) TestList_FiltersAndOrder() {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.repo.Insert(ctx, examRecord(1, "b", base.Add(2*time.Hour)))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, examRecord(1, "a", base))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, examRecord(1, "a", base.Add(time.Hour)))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, examRecord(2, "a", base))
	s.Require().NoError(err)

	all, err := s.repo.List(ctx, models.ExamResultFilter{UserID: 1})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Assert().Equal("a", all[0].ExamName)
	s.Assert().True(all[0].CreatedAt.Equal(base))
	s.Assert().Equal("b", all[2].ExamName)

	byName, err := s.repo.List(ctx, models.ExamResultFilter{UserID: 1, ExamName: "a"})
	s.Require().NoError(err)
	s.Assert().Len(byName, 2)

	since := base.Add(30 * time.Minute)
	recent, err := s.repo.List(ctx, models.ExamResultFilter{UserID: 1, Since: &since})
	s.Require().NoError(err)
	s.Assert().Len(recent, 2)

	page, err := s.repo.List(ctx, models.ExamResultFilter{UserID: 1, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Assert().True(page[0].CreatedAt.Equal(base.Add(time.Hour)))

	everyone, err := s.repo.List(ctx, models.ExamResultFilter{})
	s.Require().NoError(err)
	s.Assert().Len(everyone, 4)
}

func (s *ExamResultRepositorySuite) TestForEach_StopsOnCallbackError() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.repo.Insert(ctx, examRecord(1, "quiz", time.Now().Add(time.Duration(i)*time.Minute)))
		s.Require().NoError(err)
	}

	seen := 0
	stop := errors.New("stop")
	err := s.repo.ForEach(ctx, models.ExamResultFilter{UserID: 1}, func(models.ExamResultRecord) error {
		seen++
		if seen == 2 {
			return stop
		}
		return nil
	})
	s.Assert().ErrorIs(err, stop)
	s.Assert().Equal(2, seen)
}

func (s *ExamResultRepositorySuite) TestDelete_ScopedToOwner() {
	ctx := context.Background()
	id, err := s.repo.Insert(ctx, examRecord(1, "quiz", time.Now()))
	s.Require().NoError(err)

	ok, err := s.repo.Delete(ctx, 2, id)
	s.Require().NoError(err)
	s.Assert().False(ok)

	ok, err = s.repo.Delete(ctx, 1, id)
	s.Require().NoError(err)
	s.Assert().True(ok)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestExamResultRepositorySuite(t *testing.T) {
	suite.Run(t, new(ExamResultRepositorySuite))
}
