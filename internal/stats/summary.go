package stats

import "github.com/vytor/wrongnote/internal/models"

// SummarizeUser folds one user's DailyStat rows, in ascending date order, into a
// summary. It returns nil when there are no rows.
func SummarizeUser(userID int64, days []models.DailyStat) *models.UserSummary {
	if len(days) == 0 {
		return nil
	}
	s := &models.UserSummary{UserID: userID}
	for _, d := range days {
		s.TotalSolved += d.SolvedCount
		s.TotalCorrect += d.CorrectCount
		s.TotalStudyTime += d.TotalStudyTime
		if d.SolvedCount > 0 {
			s.ActiveDays++
		}
		if d.Streak > s.BestStreak {
			s.BestStreak = d.Streak
		}
	}
	last := days[len(days)-1]
	s.CurrentStreak = last.Streak
	lastDate := last.Date
	s.LastStudyDate = &lastDate
	if s.TotalSolved > 0 {
		s.CorrectRate = float64(s.TotalCorrect) / float64(s.TotalSolved)
	}
	return s
}
