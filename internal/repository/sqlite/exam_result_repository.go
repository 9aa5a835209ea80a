package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
)

var examResultColumns = []string{
	"id", "user_id", "exam_name", "exam_date", "exam_subject", "answers", "score",
	"correct_count", "total_questions", "elapsed_time", "subject_stats", "created_at",
}

type examResultRepository struct {
	db *sql.DB
}

// NewExamResultRepository creates a new ExamResultRepository implementation
func NewExamResultRepository(db *sql.DB) repository.ExamResultRepository {
	return &examResultRepository{db: db}
}

func (r *examResultRepository) Insert(ctx context.Context, rec models.ExamResultRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("exam_result_repo")
	log.Debug("inserting exam result: user_id=%d, exam=%s, total=%d, correct=%d", rec.UserID, rec.ExamName, rec.TotalQuestions, rec.CorrectCount)

	answers := rec.Answers
	if answers == nil {
		answers = []models.QuestionAnswer{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return 0, err
	}
	subjects := rec.SubjectStats
	if subjects == nil {
		subjects = map[string]models.SubjectStat{}
	}
	subjectsJSON, err := json.Marshal(subjects)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO exam_results (user_id, exam_name, exam_date, exam_subject, answers, score, correct_count, total_questions, elapsed_time, subject_stats, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.UserID, rec.ExamName, dbTime(rec.ExamDate), rec.ExamSubject, string(answersJSON), rec.Score,
		rec.CorrectCount, rec.TotalQuestions, rec.ElapsedTime, string(subjectsJSON), dbTime(rec.CreatedAt))
	if err != nil {
		log.Error("failed to insert exam result: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get exam result id: %v", err)
		return 0, err
	}
	log.Debug("exam result inserted: id=%d", id)
	return id, nil
}

func (r *examResultRepository) Get(ctx context.Context, id int64) (*models.ExamResultRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("exam_result_repo")
	log.Debug("getting exam result: id=%d", id)

	query, args, err := sqlBuilder.Select(examResultColumns...).From("exam_results").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	rec, err := scanExamResult(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("exam result not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get exam result: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *examResultRepository) List(ctx context.Context, filter models.ExamResultFilter) ([]models.ExamResultRecord, error) {
	var out []models.ExamResultRecord
	err := r.ForEach(ctx, filter, func(rec models.ExamResultRecord) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *examResultRepository) ForEach(ctx context.Context, filter models.ExamResultFilter, fn func(models.ExamResultRecord) error) error {
	log := logger.FromContext(ctx).WithPrefix("exam_result_repo")
	log.Debug("streaming exam results: user_id=%d, exam=%s, since=%v, limit=%d", filter.UserID, filter.ExamName, filter.Since, filter.Limit)

	query := sqlBuilder.Select(examResultColumns...).From("exam_results")

	// Dynamic WHERE clauses
	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.ExamName != "" {
		query = query.Where(squirrel.Eq{"exam_name": filter.ExamName})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": dbTime(*filter.Since)})
	}
	query = query.OrderBy("created_at ASC", "id ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query exam results: %v", err)
		return err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		rec, err := scanExamResult(rows)
		if err != nil {
			log.Error("failed to scan exam result row: %v", err)
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		n++
	}
	log.Debug("streamed %d exam results", n)
	return rows.Err()
}

func (r *examResultRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("exam_result_repo")
	log.Debug("deleting exam result: user_id=%d, id=%d", userID, id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM exam_results WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		log.Error("failed to delete exam result: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExamResult(row rowScanner) (models.ExamResultRecord, error) {
	var rec models.ExamResultRecord
	var answersJSON, subjectsJSON string
	err := row.Scan(&rec.ID, &rec.UserID, &rec.ExamName, &rec.ExamDate, &rec.ExamSubject, &answersJSON, &rec.Score,
		&rec.CorrectCount, &rec.TotalQuestions, &rec.ElapsedTime, &subjectsJSON, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(subjectsJSON), &rec.SubjectStats); err != nil {
		return rec, err
	}
	rec.ExamDate = rec.ExamDate.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
