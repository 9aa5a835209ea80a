package services

import (
	"context"
	"time"

	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
	"github.com/vytor/wrongnote/internal/stats"
)

// DailyStatsService maintains per-user, per-day totals and streaks
type DailyStatsService interface {
	// ApplyExamResult adds one exam result to the user's row for the day of
	// examDate. The global aggregate is updated only for a user's first row or
	// when the day's streak changed. Zero totals are a no-op.
	ApplyExamResult(ctx context.Context, userID int64, examDate time.Time, totalQuestions, correctCount, elapsedSeconds int) (models.DailyApplyResult, error)
	GetUserDailyStats(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyStat, error)
}

type dailyStatsService struct {
	dailyRepo repository.DailyStatRepository
	global    GlobalStatsService
	loc       *time.Location
}

// NewDailyStatsService creates a new DailyStatsService. Calendar days are taken
// in loc.
func NewDailyStatsService(dailyRepo repository.DailyStatRepository, global GlobalStatsService, loc *time.Location) DailyStatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &dailyStatsService{dailyRepo: dailyRepo, global: global, loc: loc}
}

func (s *dailyStatsService) ApplyExamResult(ctx context.Context, userID int64, examDate time.Time, totalQuestions, correctCount, elapsedSeconds int) (models.DailyApplyResult, error) {
	log := logger.FromContext(ctx).WithPrefix("daily_stats")

	if userID <= 0 {
		return models.DailyApplyResult{}, errors.NewValidationError("user_id", "must be positive")
	}

	delta := stats.NormalizeDelta(totalQuestions, correctCount, elapsedSeconds)
	if delta.IsZero() {
		log.Debug("skipping empty exam result: user_id=%d", userID)
		return models.DailyApplyResult{}, nil
	}

	day := stats.DateOnly(examDate, s.loc)
	res, err := s.dailyRepo.Apply(ctx, userID, day, delta)
	if err != nil {
		log.Error("failed to apply daily stats: %v", err)
		return models.DailyApplyResult{}, errors.NewInternalError(err)
	}

	if !stats.ShouldPropagate(res) {
		return res, nil
	}

	log.Debug("propagating to global stats: user_id=%d, new_record=%t, streak_delta=%d", userID, res.IsNewRecord, res.StreakDelta())
	if _, err := s.global.ApplyDelta(ctx, stats.GlobalDeltaFor(res, delta)); err != nil {
		return res, err
	}
	return res, nil
}

func (s *dailyStatsService) GetUserDailyStats(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting daily stats: user_id=%d", userID)

	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, errors.NewBadRequestError("from must not be after to")
	}

	rows, err := s.dailyRepo.ListRange(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to list daily stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.DailyStat{}
	}
	return rows, nil
}
