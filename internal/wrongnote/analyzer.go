// Package wrongnote derives wrong-answer statistics from a user's exam history.
// Nothing here is persisted; every summary is recomputed from the records.
package wrongnote

import (
	"math"
	"sort"
	"time"

	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/stats"
)

const (
	// TopTags is the number of weak tags reported.
	TopTags = 5
	// TrendDays is the length of the trailing daily trend.
	TrendDays = 30
)

type Options struct {
	Filter models.WrongAnswerFilter
	Sort   models.WrongAnswerSort
	// Limit caps the question listing; zero or less means no cap.
	Limit int
	Now   time.Time
	Loc   *time.Location
}

// Analyze summarizes the wrong answers in records, which must be in submission
// order. That order is the tie-break of every stable sort below.
func Analyze(userID int64, records []models.ExamResultRecord, opts Options) models.WrongAnswerSummary {
	records = Filter(records, opts.Filter)

	summary := models.WrongAnswerSummary{
		UserID:       userID,
		Questions:    []models.WrongQuestion{},
		WeakTags:     []models.TagWeakness{},
		ExamWeakness: examWeakness(records),
		Trend:        Trend(records, opts.Now, opts.Loc),
	}

	questions := wrongQuestions(records)
	for _, q := range questions {
		summary.TotalWrong += q.WrongCount
	}
	summary.UniqueQuestions = len(questions)

	SortQuestions(questions, opts.Sort)
	if opts.Limit > 0 && len(questions) > opts.Limit {
		questions = questions[:opts.Limit]
	}
	summary.Questions = questions
	summary.WeakTags = weakTags(records)
	return summary
}

// Filter keeps the records matching exam name and since date.
func Filter(records []models.ExamResultRecord, f models.WrongAnswerFilter) []models.ExamResultRecord {
	if f.ExamName == "" && f.Since == nil {
		return records
	}
	out := make([]models.ExamResultRecord, 0, len(records))
	for _, r := range records {
		if f.ExamName != "" && r.ExamName != f.ExamName {
			continue
		}
		if f.Since != nil && r.CreatedAt.Before(*f.Since) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// wrongQuestions returns one entry per missed question in order of first miss.
func wrongQuestions(records []models.ExamResultRecord) []models.WrongQuestion {
	index := make(map[int64]int)
	var out []models.WrongQuestion
	for _, r := range records {
		for _, a := range r.Answers {
			if a.IsCorrect {
				continue
			}
			detail := models.WrongAnswerDetail{
				ExamResultID:   r.ID,
				ExamName:       r.ExamName,
				SelectedOption: a.SelectedOption,
				WrongAt:        r.CreatedAt,
			}
			i, ok := index[a.QuestionID]
			if !ok {
				index[a.QuestionID] = len(out)
				out = append(out, models.WrongQuestion{
					QuestionID: a.QuestionID,
					WrongCount: 1,
					Tags:       mergeTags(nil, a.Tags),
					LastWrong:  detail,
				})
				continue
			}
			q := &out[i]
			q.WrongCount++
			q.Tags = mergeTags(q.Tags, a.Tags)
			// later createdAt wins; equal timestamps fall to the later record
			if !detail.WrongAt.Before(q.LastWrong.WrongAt) {
				q.LastWrong = detail
			}
		}
	}
	return out
}

func mergeTags(have, add []string) []string {
	for _, t := range add {
		found := false
		for _, h := range have {
			if h == t {
				found = true
				break
			}
		}
		if !found {
			have = append(have, t)
		}
	}
	return have
}

// SortQuestions orders the listing in place. The sort is stable, so entries that
// compare equal keep their input order.
func SortQuestions(qs []models.WrongQuestion, key models.WrongAnswerSort) {
	var less func(a, b models.WrongQuestion) bool
	switch key {
	case models.SortWrongCountAsc:
		less = func(a, b models.WrongQuestion) bool { return a.WrongCount < b.WrongCount }
	case models.SortLastWrongDateDesc:
		less = func(a, b models.WrongQuestion) bool { return a.LastWrong.WrongAt.After(b.LastWrong.WrongAt) }
	case models.SortLastWrongDateAsc:
		less = func(a, b models.WrongQuestion) bool { return a.LastWrong.WrongAt.Before(b.LastWrong.WrongAt) }
	default:
		less = func(a, b models.WrongQuestion) bool { return a.WrongCount > b.WrongCount }
	}
	sort.SliceStable(qs, func(i, j int) bool { return less(qs[i], qs[j]) })
}

func weakTags(records []models.ExamResultRecord) []models.TagWeakness {
	byTag := make(map[string]*models.TagWeakness)
	for _, r := range records {
		for _, a := range r.Answers {
			for _, tag := range a.Tags {
				tw, ok := byTag[tag]
				if !ok {
					tw = &models.TagWeakness{Tag: tag}
					byTag[tag] = tw
				}
				tw.TotalCount++
				if !a.IsCorrect {
					tw.WrongCount++
				}
			}
		}
	}

	out := make([]models.TagWeakness, 0, len(byTag))
	for _, tw := range byTag {
		if tw.WrongCount == 0 {
			continue
		}
		tw.WrongRate = float64(tw.WrongCount) / float64(tw.TotalCount)
		out = append(out, *tw)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WrongCount != out[j].WrongCount {
			return out[i].WrongCount > out[j].WrongCount
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > TopTags {
		out = out[:TopTags]
	}
	return out
}

func examWeakness(records []models.ExamResultRecord) []models.ExamWeakness {
	byExam := make(map[string]models.SubjectStat)
	for _, r := range records {
		total, wrong := answerTotals(r)
		if total == 0 {
			continue
		}
		byExam[r.ExamName] = byExam[r.ExamName].Merge(models.SubjectStat{Total: total, Correct: total - wrong})
	}

	out := make([]models.ExamWeakness, 0, len(byExam))
	for name, st := range byExam {
		wrong := st.Total - st.Correct
		out = append(out, models.ExamWeakness{
			ExamName:     name,
			WrongCount:   wrong,
			TotalCount:   st.Total,
			WrongPercent: math.Round(1000*float64(wrong)/float64(st.Total)) / 10,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WrongPercent != out[j].WrongPercent {
			return out[i].WrongPercent > out[j].WrongPercent
		}
		return out[i].ExamName < out[j].ExamName
	})
	return out
}

// answerTotals counts per-question answers, falling back to the record totals
// for results submitted without answer detail.
func answerTotals(r models.ExamResultRecord) (total, wrong int) {
	if len(r.Answers) > 0 {
		for _, a := range r.Answers {
			total++
			if !a.IsCorrect {
				wrong++
			}
		}
		return total, wrong
	}
	total = max(r.TotalQuestions, 0)
	wrong = min(max(r.TotalQuestions-r.CorrectCount, 0), total)
	return total, wrong
}

// Trend returns TrendDays dense points ending on the day of now, oldest first.
// Days without activity are zero.
func Trend(records []models.ExamResultRecord, now time.Time, loc *time.Location) []models.TrendPoint {
	today := stats.DateOnly(now, loc)
	start := today.AddDate(0, 0, -(TrendDays - 1))

	points := make([]models.TrendPoint, TrendDays)
	for i := range points {
		points[i].Date = stats.FormatDay(start.AddDate(0, 0, i))
	}

	for _, r := range records {
		d := stats.DateOnly(r.CreatedAt, loc)
		if d.Before(start) || d.After(today) {
			continue
		}
		i := int(d.Sub(start).Hours() / 24)
		total, wrong := answerTotals(r)
		points[i].TotalCount += total
		points[i].WrongCount += wrong
	}
	return points
}
