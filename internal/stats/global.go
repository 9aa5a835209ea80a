package stats

import (
	"math"

	"github.com/vytor/wrongnote/internal/models"
)

// ApplyGlobalDelta adds d to the running sums of cur and recomputes the
// averages from the sums. A nil cur bootstraps the row from d alone, with at
// least one user so the averages never divide by zero.
func ApplyGlobalDelta(cur *models.GlobalStat, d models.GlobalDelta) models.GlobalStat {
	var g models.GlobalStat
	if cur == nil {
		g = models.GlobalStat{
			TotalUsers:        max(d.UserCount, 1),
			TotalStudyTime:    int64(d.StudyTime),
			TotalSolvedCount:  int64(d.Solved),
			TotalCorrectCount: int64(d.Correct),
			TotalStreak:       int64(d.Streak),
			Version:           1,
		}
		return DeriveAverages(g)
	}

	g = *cur
	g.TotalUsers += d.UserCount
	g.TotalStudyTime += int64(d.StudyTime)
	g.TotalSolvedCount += int64(d.Solved)
	g.TotalCorrectCount += int64(d.Correct)
	g.TotalStreak += int64(d.Streak)
	g.Version++
	return DeriveAverages(g)
}

// DeriveAverages recomputes every average from the running sums. The correct
// rate is the ratio of the sums, so it is weighted by solved volume.
func DeriveAverages(g models.GlobalStat) models.GlobalStat {
	g.AvgStudyTime, g.AvgSolvedCount, g.AvgStreak, g.AvgCorrectRate = 0, 0, 0, 0
	if g.TotalUsers > 0 {
		users := float64(g.TotalUsers)
		g.AvgStudyTime = int64(math.Round(float64(g.TotalStudyTime) / users))
		g.AvgSolvedCount = int64(math.Round(float64(g.TotalSolvedCount) / users))
		g.AvgStreak = int64(math.Round(float64(g.TotalStreak) / users))
	}
	if g.TotalSolvedCount > 0 {
		g.AvgCorrectRate = float64(g.TotalCorrectCount) / float64(g.TotalSolvedCount)
	}
	return g
}
