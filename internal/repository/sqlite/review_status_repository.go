package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
)

var reviewStatusColumns = []string{
	"user_id", "question_id", "review_status", "retry_count", "correct_retry_count", "last_reviewed_at", "next_review_date",
}

type reviewStatusRepository struct {
	db *sql.DB
}

// NewReviewStatusRepository creates a new ReviewStatusRepository implementation
func NewReviewStatusRepository(db *sql.DB) repository.ReviewStatusRepository {
	return &reviewStatusRepository{db: db}
}

func (r *reviewStatusRepository) RecordAttempt(ctx context.Context, userID, questionID int64, isCorrect bool, next repository.ReviewTransition) (models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review_status_repo")
	log.Debug("recording review attempt: user_id=%d, question_id=%d, correct=%t", userID, questionID, isCorrect)

	correct := 0
	if isCorrect {
		correct = 1
	}

	var out models.ReviewStatus
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO review_statuses (user_id, question_id, retry_count, correct_retry_count)
VALUES (?, ?, 1, ?)
ON CONFLICT(user_id, question_id) DO UPDATE SET
    retry_count = retry_count + 1,
    correct_retry_count = correct_retry_count + excluded.correct_retry_count
`, userID, questionID, correct); err != nil {
			return err
		}

		cur, err := r.getWith(ctx, tx, userID, questionID)
		if err != nil {
			return err
		}
		if cur == nil {
			return errors.New("review status row missing after upsert")
		}

		out = next(*cur)
		_, err = tx.ExecContext(ctx, `
UPDATE review_statuses SET review_status = ?, last_reviewed_at = ?, next_review_date = ?
WHERE user_id = ? AND question_id = ?
`, int(out.Status), nullTime(out.LastReviewedAt), nullTime(out.NextReviewDate), userID, questionID)
		return err
	})
	if err != nil {
		log.Error("failed to record review attempt: %v", err)
		return models.ReviewStatus{}, err
	}

	log.Debug("review attempt recorded: status=%s, retries=%d, correct=%d", out.Status, out.RetryCount, out.CorrectRetryCount)
	return normalizeReviewTimes(out), nil
}

func (r *reviewStatusRepository) SetStatus(ctx context.Context, userID, questionID int64, next repository.ReviewTransition) (models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review_status_repo")
	log.Debug("setting review status: user_id=%d, question_id=%d", userID, questionID)

	var out models.ReviewStatus
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO review_statuses (user_id, question_id)
VALUES (?, ?)
ON CONFLICT(user_id, question_id) DO NOTHING
`, userID, questionID); err != nil {
			return err
		}

		cur, err := r.getWith(ctx, tx, userID, questionID)
		if err != nil {
			return err
		}
		if cur == nil {
			return errors.New("review status row missing after upsert")
		}

		out = next(*cur)
		_, err = tx.ExecContext(ctx, `
UPDATE review_statuses
SET review_status = ?, next_review_date = ?
WHERE user_id = ? AND question_id = ?
`, int(out.Status), nullTime(out.NextReviewDate), userID, questionID)
		return err
	})
	if err != nil {
		log.Error("failed to set review status: %v", err)
		return models.ReviewStatus{}, err
	}

	log.Debug("review status set: status=%s", out.Status)
	return normalizeReviewTimes(out), nil
}

func (r *reviewStatusRepository) Get(ctx context.Context, userID, questionID int64) (*models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review_status_repo")
	log.Debug("getting review status: user_id=%d, question_id=%d", userID, questionID)

	s, err := r.getWith(ctx, r.db, userID, questionID)
	if err != nil {
		log.Error("failed to get review status: %v", err)
		return nil, err
	}
	return s, nil
}

// ListDue returns reviewing pairs whose next review date is at or before now,
// earliest first.
func (r *reviewStatusRepository) ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ReviewStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("review_status_repo")
	log.Debug("listing due reviews: user_id=%d, now=%v, limit=%d", userID, now, limit)

	query := sqlBuilder.Select(reviewStatusColumns...).
		From("review_statuses").
		Where(squirrel.Eq{"user_id": userID, "review_status": int(models.ReviewReviewing)}).
		Where(squirrel.NotEq{"next_review_date": nil}).
		Where(squirrel.LtOrEq{"next_review_date": dbTime(now)}).
		OrderBy("next_review_date ASC", "question_id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewStatus
	for rows.Next() {
		s, err := scanReviewStatus(rows)
		if err != nil {
			log.Error("failed to scan review status row: %v", err)
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug("found %d due reviews", len(out))
	return out, nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *reviewStatusRepository) getWith(ctx context.Context, q rowQueryer, userID, questionID int64) (*models.ReviewStatus, error) {
	sqlStr, args, err := sqlBuilder.Select(reviewStatusColumns...).
		From("review_statuses").
		Where(squirrel.Eq{"user_id": userID, "question_id": questionID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanReviewStatus(q.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanReviewStatus(row rowScanner) (models.ReviewStatus, error) {
	var s models.ReviewStatus
	var status int
	var last, next sql.NullTime
	if err := row.Scan(&s.UserID, &s.QuestionID, &status, &s.RetryCount, &s.CorrectRetryCount, &last, &next); err != nil {
		return s, err
	}
	s.Status = models.ReviewState(status)
	s.LastReviewedAt = timePtr(last)
	s.NextReviewDate = timePtr(next)
	return s, nil
}

func normalizeReviewTimes(s models.ReviewStatus) models.ReviewStatus {
	if s.LastReviewedAt != nil {
		t := dbTime(*s.LastReviewedAt)
		s.LastReviewedAt = &t
	}
	if s.NextReviewDate != nil {
		t := dbTime(*s.NextReviewDate)
		s.NextReviewDate = &t
	}
	return s
}
