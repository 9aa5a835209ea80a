package stats

import (
	"sort"
	"time"

	"github.com/vytor/wrongnote/internal/models"
)

// Ledger replays exam results in memory with the same arithmetic the persisted
// aggregators use. Replaying a history in submission order yields the rows and
// global stat that incremental aggregation would have stored.
type Ledger struct {
	loc    *time.Location
	days   map[int64]map[time.Time]*models.DailyStat
	global *models.GlobalStat
}

// NewLedger creates an empty ledger whose calendar days are taken in loc.
func NewLedger(loc *time.Location) *Ledger {
	return &Ledger{
		loc:  loc,
		days: make(map[int64]map[time.Time]*models.DailyStat),
	}
}

// ApplyRecord replays one exam result: the DailyStat increment followed by the
// conditional global update. Zero deltas are skipped.
func (l *Ledger) ApplyRecord(r models.ExamResultRecord) {
	d := NormalizeDelta(r.TotalQuestions, r.CorrectCount, r.ElapsedTime)
	if d.IsZero() {
		return
	}
	res := l.ApplyDaily(r.UserID, r.ExamDate, d)
	if ShouldPropagate(res) {
		g := ApplyGlobalDelta(l.global, GlobalDeltaFor(res, d))
		l.global = &g
	}
}

// ApplyDaily adds d to the user's row for the day of examDate and recomputes
// that day's streak.
func (l *Ledger) ApplyDaily(userID int64, examDate time.Time, d models.DailyDelta) models.DailyApplyResult {
	day := DateOnly(examDate, l.loc)
	rows, ok := l.days[userID]
	isNew := !ok || len(rows) == 0
	if !ok {
		rows = make(map[time.Time]*models.DailyStat)
		l.days[userID] = rows
	}

	row, ok := rows[day]
	if !ok {
		row = &models.DailyStat{UserID: userID, Date: day}
		rows[day] = row
	}
	row.SolvedCount += d.Solved
	row.CorrectCount += d.Correct
	row.TotalStudyTime += d.StudyTime

	old := row.Streak
	row.Streak = Streak(l.descending(userID), day)
	return models.DailyApplyResult{Stat: *row, IsNewRecord: isNew, OldStreak: old}
}

// Days returns a user's rows in ascending date order.
func (l *Ledger) Days(userID int64) []models.DailyStat {
	rows := l.days[userID]
	out := make([]models.DailyStat, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Global returns the replayed global stat, or nil if nothing propagated.
func (l *Ledger) Global() *models.GlobalStat {
	if l.global == nil {
		return nil
	}
	g := *l.global
	return &g
}

func (l *Ledger) descending(userID int64) []models.DailyStat {
	out := l.Days(userID)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
