package models

import "time"

// WrongAnswerSort selects the ordering of the top wrong questions listing.
type WrongAnswerSort string

const (
	SortWrongCountDesc    WrongAnswerSort = "wrong_count_desc"
	SortWrongCountAsc     WrongAnswerSort = "wrong_count_asc"
	SortLastWrongDateDesc WrongAnswerSort = "last_wrong_date_desc"
	SortLastWrongDateAsc  WrongAnswerSort = "last_wrong_date_asc"
)

// ParseWrongAnswerSort maps a query value to a sort key, defaulting to
// wrong count descending.
func ParseWrongAnswerSort(s string) WrongAnswerSort {
	switch WrongAnswerSort(s) {
	case SortWrongCountAsc, SortLastWrongDateDesc, SortLastWrongDateAsc:
		return WrongAnswerSort(s)
	default:
		return SortWrongCountDesc
	}
}

type WrongAnswerFilter struct {
	ExamName string
	Since    *time.Time
}

// WrongAnswerDetail is the most recent wrong answer to a question.
type WrongAnswerDetail struct {
	ExamResultID   int64     `json:"exam_result_id"`
	ExamName       string    `json:"exam_name"`
	SelectedOption int       `json:"selected_option"`
	WrongAt        time.Time `json:"wrong_at"`
}

type WrongQuestion struct {
	QuestionID int64             `json:"question_id"`
	WrongCount int               `json:"wrong_count"`
	Tags       []string          `json:"tags,omitempty"`
	LastWrong  WrongAnswerDetail `json:"last_wrong"`
}

type TagWeakness struct {
	Tag        string  `json:"tag"`
	WrongCount int     `json:"wrong_count"`
	TotalCount int     `json:"total_count"`
	WrongRate  float64 `json:"wrong_rate"`
}

type ExamWeakness struct {
	ExamName     string  `json:"exam_name"`
	WrongCount   int     `json:"wrong_count"`
	TotalCount   int     `json:"total_count"`
	WrongPercent float64 `json:"wrong_percent"`
}

type TrendPoint struct {
	Date       string `json:"date"`
	WrongCount int    `json:"wrong_count"`
	TotalCount int    `json:"total_count"`
}

// WrongAnswerSummary is derived on demand from exam-result history.
type WrongAnswerSummary struct {
	UserID          int64           `json:"user_id"`
	TotalWrong      int             `json:"total_wrong"`
	UniqueQuestions int             `json:"unique_questions"`
	Questions       []WrongQuestion `json:"questions"`
	WeakTags        []TagWeakness   `json:"weak_tags"`
	ExamWeakness    []ExamWeakness  `json:"exam_weakness"`
	Trend           []TrendPoint    `json:"trend"`
}
