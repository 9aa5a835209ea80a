package services

import (
	"context"
	"time"

	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
	"github.com/vytor/wrongnote/internal/wrongnote"
)

// WrongAnswerService summarizes a user's wrong answers from exam history
type WrongAnswerService interface {
	GetWrongAnswerSummary(ctx context.Context, userID int64, filter models.WrongAnswerFilter, sortKey models.WrongAnswerSort, limit int) (models.WrongAnswerSummary, error)
}

type wrongAnswerService struct {
	examRepo     repository.ExamResultRepository
	loc          *time.Location
	defaultLimit int
	now          func() time.Time
}

// NewWrongAnswerService creates a new WrongAnswerService. Requests without a
// limit are capped at defaultLimit questions.
func NewWrongAnswerService(examRepo repository.ExamResultRepository, loc *time.Location, defaultLimit int, now func() time.Time) WrongAnswerService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &wrongAnswerService{examRepo: examRepo, loc: loc, defaultLimit: defaultLimit, now: now}
}

func (s *wrongAnswerService) GetWrongAnswerSummary(ctx context.Context, userID int64, filter models.WrongAnswerFilter, sortKey models.WrongAnswerSort, limit int) (models.WrongAnswerSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("wrong_answers")
	log.Debug("summarizing wrong answers: user_id=%d, exam=%q, sort=%s, limit=%d", userID, filter.ExamName, sortKey, limit)

	if userID <= 0 {
		return models.WrongAnswerSummary{}, errors.NewValidationError("user_id", "must be positive")
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	// filters are pushed down to storage; the analyzer re-applies them in memory
	var records []models.ExamResultRecord
	err := s.examRepo.ForEach(ctx, models.ExamResultFilter{UserID: userID, ExamName: filter.ExamName, Since: filter.Since}, func(r models.ExamResultRecord) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		log.Error("failed to load exam history: %v", err)
		return models.WrongAnswerSummary{}, errors.NewInternalError(err)
	}

	summary := wrongnote.Analyze(userID, records, wrongnote.Options{
		Filter: filter,
		Sort:   sortKey,
		Limit:  limit,
		Now:    s.now(),
		Loc:    s.loc,
	})
	log.Debug("wrong answer summary: records=%d, total_wrong=%d, unique=%d", len(records), summary.TotalWrong, summary.UniqueQuestions)
	return summary, nil
}
