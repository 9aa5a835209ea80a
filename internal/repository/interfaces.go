package repository

import (
	"context"
	"time"

	"github.com/vytor/wrongnote/internal/models"
)

// ExamResultRepository handles exam-result history
type ExamResultRepository interface {
	Insert(ctx context.Context, r models.ExamResultRecord) (int64, error)
	Get(ctx context.Context, id int64) (*models.ExamResultRecord, error)
	List(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultRecord, error)
	// ForEach streams matching records in submission order (created_at, id).
	// A zero UserID streams every user.
	ForEach(ctx context.Context, filter models.ExamResultFilter, fn func(models.ExamResultRecord) error) error
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

// DailyStatRepository handles per-user, per-day running totals
type DailyStatRepository interface {
	// Apply increments the row of day and recomputes its streak in one
	// transaction.
	Apply(ctx context.Context, userID int64, day time.Time, delta models.DailyDelta) (models.DailyApplyResult, error)
	Get(ctx context.Context, userID int64, day time.Time) (*models.DailyStat, error)
	// ListRange returns rows in ascending date order; zero bounds are open.
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyStat, error)
}

// GlobalStatRepository handles the single cross-user aggregate row
type GlobalStatRepository interface {
	ApplyDelta(ctx context.Context, delta models.GlobalDelta) (models.GlobalStat, error)
	Get(ctx context.Context) (*models.GlobalStat, error)
}

// ReviewTransition derives the new review state from the stored row. For
// RecordAttempt the row already includes the current attempt.
type ReviewTransition func(models.ReviewStatus) models.ReviewStatus

// ReviewStatusRepository handles wrong-note review state
type ReviewStatusRepository interface {
	// RecordAttempt atomically increments the attempt counters, creating the
	// row if needed, then stores the state produced by next.
	RecordAttempt(ctx context.Context, userID, questionID int64, isCorrect bool, next ReviewTransition) (models.ReviewStatus, error)
	// SetStatus applies next to the pair, creating the row if needed. Only the
	// state and next review date are written back.
	SetStatus(ctx context.Context, userID, questionID int64, next ReviewTransition) (models.ReviewStatus, error)
	Get(ctx context.Context, userID, questionID int64) (*models.ReviewStatus, error)
	ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ReviewStatus, error)
}
