package stats

import (
	"time"

	"github.com/vytor/wrongnote/internal/models"
)

// Streak recomputes the streak of day from one user's rows ordered by date
// descending. Rows after day are skipped. A day without solved questions has
// streak 0; otherwise the walk goes back one calendar day at a time and stops at
// the first missing day, zero-solved day or larger jump.
func Streak(history []models.DailyStat, day time.Time) int {
	i := 0
	for i < len(history) && history[i].Date.After(day) {
		i++
	}
	if i == len(history) || !history[i].Date.Equal(day) || history[i].SolvedCount <= 0 {
		return 0
	}

	count := 1
	expected := day.AddDate(0, 0, -1)
	for _, row := range history[i+1:] {
		if !row.Date.Equal(expected) || row.SolvedCount <= 0 {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

// NormalizeDelta turns exam totals into a DailyStat increment. Negative values
// count as zero and correct never exceeds solved, so the row invariant
// solved >= correct >= 0 holds after any sequence of increments.
func NormalizeDelta(totalQuestions, correctCount, elapsedSeconds int) models.DailyDelta {
	d := models.DailyDelta{
		Solved:    max(totalQuestions, 0),
		Correct:   max(correctCount, 0),
		StudyTime: max(elapsedSeconds, 0),
	}
	if d.Correct > d.Solved {
		d.Correct = d.Solved
	}
	return d
}

// ShouldPropagate reports whether a DailyStat update must reach the global row:
// only for a user's first row or when the day's streak moved.
func ShouldPropagate(res models.DailyApplyResult) bool {
	return res.IsNewRecord || res.StreakDelta() != 0
}

// GlobalDeltaFor builds the global increment for a propagated DailyStat update.
func GlobalDeltaFor(res models.DailyApplyResult, d models.DailyDelta) models.GlobalDelta {
	g := models.GlobalDelta{
		StudyTime: d.StudyTime,
		Solved:    d.Solved,
		Correct:   d.Correct,
		Streak:    res.StreakDelta(),
	}
	if res.IsNewRecord {
		g.UserCount = 1
	}
	return g
}
