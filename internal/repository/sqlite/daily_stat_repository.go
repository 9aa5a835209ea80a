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
	"github.com/vytor/wrongnote/internal/stats"
)

var dailyStatColumns = []string{
	"user_id", "date", "solved_count", "correct_count", "total_study_time", "streak",
}

type dailyStatRepository struct {
	db *sql.DB
}

// NewDailyStatRepository creates a new DailyStatRepository implementation
func NewDailyStatRepository(db *sql.DB) repository.DailyStatRepository {
	return &dailyStatRepository{db: db}
}

func (r *dailyStatRepository) Apply(ctx context.Context, userID int64, day time.Time, d models.DailyDelta) (models.DailyApplyResult, error) {
	log := logger.FromContext(ctx).WithPrefix("daily_stat_repo")
	date := stats.FormatDay(day)
	log.Debug("applying daily delta: user_id=%d, date=%s, solved=%d, correct=%d, study_time=%d", userID, date, d.Solved, d.Correct, d.StudyTime)

	var res models.DailyApplyResult
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var hadRows bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM daily_stats WHERE user_id = ?)`, userID).Scan(&hadRows); err != nil {
			return err
		}
		res.IsNewRecord = !hadRows

		if _, err := tx.ExecContext(ctx, `
INSERT INTO daily_stats (user_id, date, solved_count, correct_count, total_study_time)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
    solved_count = solved_count + excluded.solved_count,
    correct_count = correct_count + excluded.correct_count,
    total_study_time = total_study_time + excluded.total_study_time,
    updated_at = CURRENT_TIMESTAMP
`, userID, date, d.Solved, d.Correct, d.StudyTime); err != nil {
			return err
		}

		history, err := streakWindow(ctx, tx, userID, date)
		if err != nil {
			return err
		}
		if len(history) == 0 || history[0].Date.Format(models.DateLayout) != date {
			return errors.New("daily stat row missing after upsert")
		}

		res.OldStreak = history[0].Streak
		res.Stat = history[0]
		res.Stat.Streak = stats.Streak(history, day)
		if res.Stat.Streak == res.OldStreak {
			return nil
		}
		_, err = tx.ExecContext(ctx, `UPDATE daily_stats SET streak = ? WHERE user_id = ? AND date = ?`, res.Stat.Streak, userID, date)
		return err
	})
	if err != nil {
		log.Error("failed to apply daily delta: %v", err)
		return models.DailyApplyResult{}, err
	}

	log.Debug("daily delta applied: new_record=%t, streak %d -> %d", res.IsNewRecord, res.OldStreak, res.Stat.Streak)
	return res, nil
}

func (r *dailyStatRepository) Get(ctx context.Context, userID int64, day time.Time) (*models.DailyStat, error) {
	log := logger.FromContext(ctx).WithPrefix("daily_stat_repo")
	log.Debug("getting daily stat: user_id=%d, date=%s", userID, stats.FormatDay(day))

	rows, err := queryDailyStats(ctx, r.db, sqlBuilder.
		Select(dailyStatColumns...).
		From("daily_stats").
		Where(squirrel.Eq{"user_id": userID, "date": stats.FormatDay(day)}))
	if err != nil {
		log.Error("failed to get daily stat: %v", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *dailyStatRepository) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyStat, error) {
	log := logger.FromContext(ctx).WithPrefix("daily_stat_repo")
	log.Debug("listing daily stats: user_id=%d, from=%v, to=%v", userID, from, to)

	query := sqlBuilder.Select(dailyStatColumns...).
		From("daily_stats").
		Where(squirrel.Eq{"user_id": userID})
	if !from.IsZero() {
		query = query.Where(squirrel.GtOrEq{"date": stats.FormatDay(from)})
	}
	if !to.IsZero() {
		query = query.Where(squirrel.LtOrEq{"date": stats.FormatDay(to)})
	}

	out, err := queryDailyStats(ctx, r.db, query.OrderBy("date ASC"))
	if err != nil {
		log.Error("failed to list daily stats: %v", err)
		return nil, err
	}
	log.Debug("found %d daily stats", len(out))
	return out, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryDailyStats(ctx context.Context, q queryer, query squirrel.SelectBuilder) ([]models.DailyStat, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyStat
	for rows.Next() {
		s, err := scanDailyStat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// streakWindow streams the rows of userID up to date, newest first, and stops
// at the first gap or zero-solved day. The day's own row comes first.
func streakWindow(ctx context.Context, q queryer, userID int64, date string) ([]models.DailyStat, error) {
	sqlStr, args, err := sqlBuilder.Select(dailyStatColumns...).
		From("daily_stats").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.LtOrEq{"date": date}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyStat
	for rows.Next() {
		s, err := scanDailyStat(rows)
		if err != nil {
			return nil, err
		}
		if n := len(out); n > 0 {
			prev := out[n-1]
			if prev.SolvedCount <= 0 || !s.Date.Equal(prev.Date.AddDate(0, 0, -1)) {
				break
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanDailyStat(row rowScanner) (models.DailyStat, error) {
	var s models.DailyStat
	var date string
	if err := row.Scan(&s.UserID, &date, &s.SolvedCount, &s.CorrectCount, &s.TotalStudyTime, &s.Streak); err != nil {
		return models.DailyStat{}, err
	}
	var err error
	s.Date, err = stats.ParseDay(date)
	return s, err
}
