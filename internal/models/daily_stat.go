package models

import "time"

// DateLayout is the storage format of a calendar day.
const DateLayout = "2006-01-02"

// DailyStat holds per-user, per-calendar-day running totals.
type DailyStat struct {
	UserID         int64     `json:"user_id"`
	Date           time.Time `json:"date"`
	SolvedCount    int       `json:"solved_count"`
	CorrectCount   int       `json:"correct_count"`
	TotalStudyTime int       `json:"total_study_time"`
	Streak         int       `json:"streak"`
}

// DailyDelta is the increment applied to one DailyStat row.
type DailyDelta struct {
	Solved    int
	Correct   int
	StudyTime int
}

// IsZero reports whether applying the delta would change nothing.
func (d DailyDelta) IsZero() bool {
	return d.Solved == 0 && d.Correct == 0 && d.StudyTime == 0
}

// DailyApplyResult describes the outcome of one DailyStat increment.
type DailyApplyResult struct {
	Stat        DailyStat
	IsNewRecord bool
	OldStreak   int
}

// StreakDelta is the change of the day's streak caused by the increment.
func (r DailyApplyResult) StreakDelta() int {
	return r.Stat.Streak - r.OldStreak
}

// UserSummary is a user's aggregate study statistics.
type UserSummary struct {
	UserID         int64      `json:"user_id"`
	TotalSolved    int        `json:"total_solved"`
	TotalCorrect   int        `json:"total_correct"`
	TotalStudyTime int        `json:"total_study_time"`
	CorrectRate    float64    `json:"correct_rate"`
	CurrentStreak  int        `json:"current_streak"`
	BestStreak     int        `json:"best_streak"`
	ActiveDays     int        `json:"active_days"`
	LastStudyDate  *time.Time `json:"last_study_date"`
	Source         string     `json:"source"`
}

const (
	SourcePersisted = "persisted"
	SourceDerived   = "derived"
)
