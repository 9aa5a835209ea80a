package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
	"github.com/vytor/wrongnote/internal/stats"
)

const globalStatID = 1

const selectGlobalStat = `
SELECT total_users, total_study_time, total_solved_count, total_correct_count, total_streak,
       avg_study_time, avg_solved_count, avg_correct_rate, avg_streak, version, updated_at
FROM global_stats WHERE id = ?`

type globalStatRepository struct {
	db *sql.DB
}

// NewGlobalStatRepository creates a new GlobalStatRepository implementation
func NewGlobalStatRepository(db *sql.DB) repository.GlobalStatRepository {
	return &globalStatRepository{db: db}
}

// ApplyDelta adds the delta to the running sums with SQL increments, then
// recomputes the averages from the stored sums inside the same transaction.
func (r *globalStatRepository) ApplyDelta(ctx context.Context, d models.GlobalDelta) (models.GlobalStat, error) {
	log := logger.FromContext(ctx).WithPrefix("global_stat_repo")
	log.Debug("applying global delta: users=%d, study_time=%d, solved=%d, correct=%d, streak=%d", d.UserCount, d.StudyTime, d.Solved, d.Correct, d.Streak)

	var g models.GlobalStat
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE global_stats SET
    total_users = total_users + ?,
    total_study_time = total_study_time + ?,
    total_solved_count = total_solved_count + ?,
    total_correct_count = total_correct_count + ?,
    total_streak = total_streak + ?,
    version = version + 1,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, d.UserCount, d.StudyTime, d.Solved, d.Correct, d.Streak, globalStatID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if n == 0 {
			log.Info("bootstrapping global stats row")
			boot := stats.ApplyGlobalDelta(nil, d)
			if _, err := tx.ExecContext(ctx, `
INSERT INTO global_stats (id, total_users, total_study_time, total_solved_count, total_correct_count, total_streak, version)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, globalStatID, boot.TotalUsers, boot.TotalStudyTime, boot.TotalSolvedCount, boot.TotalCorrectCount, boot.TotalStreak, boot.Version); err != nil {
				return err
			}
		}

		if g, err = scanGlobalStat(tx.QueryRowContext(ctx, selectGlobalStat, globalStatID)); err != nil {
			return err
		}
		g = stats.DeriveAverages(g)
		_, err = tx.ExecContext(ctx, `
UPDATE global_stats SET avg_study_time = ?, avg_solved_count = ?, avg_correct_rate = ?, avg_streak = ?
WHERE id = ?
`, g.AvgStudyTime, g.AvgSolvedCount, g.AvgCorrectRate, g.AvgStreak, globalStatID)
		return err
	})
	if err != nil {
		log.Error("failed to apply global delta: %v", err)
		return models.GlobalStat{}, err
	}

	log.Debug("global stats updated: version=%d, users=%d", g.Version, g.TotalUsers)
	return g, nil
}

func (r *globalStatRepository) Get(ctx context.Context) (*models.GlobalStat, error) {
	log := logger.FromContext(ctx).WithPrefix("global_stat_repo")

	g, err := scanGlobalStat(r.db.QueryRowContext(ctx, selectGlobalStat, globalStatID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("global stats row not found")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get global stats: %v", err)
		return nil, err
	}
	return &g, nil
}

func scanGlobalStat(row rowScanner) (models.GlobalStat, error) {
	var g models.GlobalStat
	var updated sql.NullTime
	err := row.Scan(&g.TotalUsers, &g.TotalStudyTime, &g.TotalSolvedCount, &g.TotalCorrectCount, &g.TotalStreak,
		&g.AvgStudyTime, &g.AvgSolvedCount, &g.AvgCorrectRate, &g.AvgStreak, &g.Version, &updated)
	if err != nil {
		return g, err
	}
	if updated.Valid {
		g.UpdatedAt = updated.Time.UTC()
	}
	return g, nil
}
