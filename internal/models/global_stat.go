package models

import "time"

// GlobalStat is the single cross-user aggregate row.
type GlobalStat struct {
	TotalUsers        int       `json:"total_users"`
	TotalStudyTime    int64     `json:"total_study_time"`
	TotalSolvedCount  int64     `json:"total_solved_count"`
	TotalCorrectCount int64     `json:"total_correct_count"`
	TotalStreak       int64     `json:"total_streak"`
	AvgStudyTime      int64     `json:"avg_study_time"`
	AvgSolvedCount    int64     `json:"avg_solved_count"`
	AvgCorrectRate    float64   `json:"avg_correct_rate"`
	AvgStreak         int64     `json:"avg_streak"`
	Version           int64     `json:"version"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GlobalDelta is the increment applied to the GlobalStat running sums.
type GlobalDelta struct {
	UserCount int
	StudyTime int
	Solved    int
	Correct   int
	Streak    int
}

// GlobalSummary is the GlobalStat plus where it came from.
type GlobalSummary struct {
	GlobalStat
	Source string `json:"source"`
}
