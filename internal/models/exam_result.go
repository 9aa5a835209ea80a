package models

import "time"

// ExamResultRecord is an immutable exam submission. It is written once by the
// ingester and only ever deleted by the owning user.
type ExamResultRecord struct {
	ID             int64                  `json:"id"`
	UserID         int64                  `json:"user_id"`
	ExamName       string                 `json:"exam_name"`
	ExamDate       time.Time              `json:"exam_date"`
	ExamSubject    string                 `json:"exam_subject"`
	Answers        []QuestionAnswer       `json:"answers"`
	Score          float64                `json:"score"`
	CorrectCount   int                    `json:"correct_count"`
	TotalQuestions int                    `json:"total_questions"`
	ElapsedTime    int                    `json:"elapsed_time"`
	SubjectStats   map[string]SubjectStat `json:"subject_stats"`
	CreatedAt      time.Time              `json:"created_at"`
}

// QuestionAnswer is one answered question inside an exam result. Tags are the
// question's tags at submission time.
type QuestionAnswer struct {
	QuestionID     int64    `json:"question_id"`
	SelectedOption int      `json:"selected_option"`
	IsCorrect      bool     `json:"is_correct"`
	Tags           []string `json:"tags,omitempty"`
}

// SubjectStat is a {total, correct} pair. Cross-record aggregation is a fold
// over Merge.
type SubjectStat struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Merge adds two stats component-wise.
func (s SubjectStat) Merge(o SubjectStat) SubjectStat {
	return SubjectStat{Total: s.Total + o.Total, Correct: s.Correct + o.Correct}
}

// CorrectRate returns Correct/Total, or 0 for an empty stat.
func (s SubjectStat) CorrectRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// MergeSubjectStats folds the subject stats of every record into one map.
func MergeSubjectStats(records []ExamResultRecord) map[string]SubjectStat {
	out := make(map[string]SubjectStat)
	for _, r := range records {
		for subject, st := range r.SubjectStats {
			out[subject] = out[subject].Merge(st)
		}
	}
	return out
}

// SubjectBreakdown is one row of a user's per-subject fold.
type SubjectBreakdown struct {
	Subject     string  `json:"subject"`
	Total       int     `json:"total"`
	Correct     int     `json:"correct"`
	CorrectRate float64 `json:"correct_rate"`
}

type ExamResultFilter struct {
	UserID   int64
	ExamName string
	Since    *time.Time
	Limit    int
	Offset   int
}
