package services

import (
	"context"
	"sort"
	"time"

	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
	"github.com/vytor/wrongnote/internal/stats"
)

// SummaryService reads user and global aggregates. When the persisted
// aggregate is missing it is derived from exam-result history instead.
type SummaryService interface {
	GetUserSummary(ctx context.Context, userID int64) (models.UserSummary, error)
	GetGlobalSummary(ctx context.Context) (models.GlobalSummary, error)
	GetSubjectBreakdown(ctx context.Context, userID int64) ([]models.SubjectBreakdown, error)
}

type summaryService struct {
	examRepo   repository.ExamResultRepository
	dailyRepo  repository.DailyStatRepository
	globalRepo repository.GlobalStatRepository
	loc        *time.Location
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(examRepo repository.ExamResultRepository, dailyRepo repository.DailyStatRepository, globalRepo repository.GlobalStatRepository, loc *time.Location) SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &summaryService{examRepo: examRepo, dailyRepo: dailyRepo, globalRepo: globalRepo, loc: loc}
}

func (s *summaryService) GetUserSummary(ctx context.Context, userID int64) (models.UserSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary")
	log.Debug("getting user summary: user_id=%d", userID)

	if userID <= 0 {
		return models.UserSummary{}, errors.NewValidationError("user_id", "must be positive")
	}

	days, err := s.dailyRepo.ListRange(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		log.Error("failed to list daily stats: %v", err)
		return models.UserSummary{}, errors.NewInternalError(err)
	}
	if sum := stats.SummarizeUser(userID, days); sum != nil {
		sum.Source = models.SourcePersisted
		return *sum, nil
	}

	log.Info("no daily stats for user %d, deriving from history", userID)
	ledger, err := s.replay(ctx, models.ExamResultFilter{UserID: userID})
	if err != nil {
		log.Error("failed to replay exam history: %v", err)
		return models.UserSummary{}, errors.NewInternalError(err)
	}
	if sum := stats.SummarizeUser(userID, ledger.Days(userID)); sum != nil {
		sum.Source = models.SourceDerived
		return *sum, nil
	}
	return models.UserSummary{UserID: userID, Source: models.SourceDerived}, nil
}

func (s *summaryService) GetGlobalSummary(ctx context.Context) (models.GlobalSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("summary")
	log.Debug("getting global summary")

	g, err := s.globalRepo.Get(ctx)
	if err != nil {
		log.Error("failed to get global stats: %v", err)
		return models.GlobalSummary{}, errors.NewInternalError(err)
	}
	if g != nil {
		return models.GlobalSummary{GlobalStat: *g, Source: models.SourcePersisted}, nil
	}

	log.Info("no global stats row, deriving from history")
	ledger, err := s.replay(ctx, models.ExamResultFilter{})
	if err != nil {
		log.Error("failed to replay exam history: %v", err)
		return models.GlobalSummary{}, errors.NewInternalError(err)
	}
	out := models.GlobalSummary{Source: models.SourceDerived}
	if derived := ledger.Global(); derived != nil {
		out.GlobalStat = *derived
	}
	return out, nil
}

// replay folds the matching history through an in-memory ledger using the same
// arithmetic as incremental aggregation.
func (s *summaryService) replay(ctx context.Context, filter models.ExamResultFilter) (*stats.Ledger, error) {
	ledger := stats.NewLedger(s.loc)
	n := 0
	err := s.examRepo.ForEach(ctx, filter, func(r models.ExamResultRecord) error {
		ledger.ApplyRecord(r)
		n++
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("replayed %d exam results", n)
	return ledger, nil
}

func (s *summaryService) GetSubjectBreakdown(ctx context.Context, userID int64) ([]models.SubjectBreakdown, error) {
	log := logger.FromContext(ctx).WithPrefix("summary")
	log.Debug("getting subject breakdown: user_id=%d", userID)

	if userID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}

	records, err := s.examRepo.List(ctx, models.ExamResultFilter{UserID: userID})
	if err != nil {
		log.Error("failed to list exam results: %v", err)
		return nil, errors.NewInternalError(err)
	}

	merged := models.MergeSubjectStats(records)
	out := make([]models.SubjectBreakdown, 0, len(merged))
	for subject, st := range merged {
		out = append(out, models.SubjectBreakdown{
			Subject:     subject,
			Total:       st.Total,
			Correct:     st.Correct,
			CorrectRate: st.CorrectRate(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}
