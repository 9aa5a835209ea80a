package models

import "time"

// ReviewState is the wrong-note review progress of one question.
type ReviewState int

const (
	ReviewNotStarted ReviewState = 0
	ReviewReviewing  ReviewState = 1
	ReviewCompleted  ReviewState = 2
)

func (s ReviewState) String() string {
	switch s {
	case ReviewNotStarted:
		return "not_started"
	case ReviewReviewing:
		return "reviewing"
	case ReviewCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three known states.
func (s ReviewState) Valid() bool {
	return s >= ReviewNotStarted && s <= ReviewCompleted
}

// ReviewStatus is the spaced-repetition state of a (user, question) pair.
// NextReviewDate is nil once completed or before the first review.
type ReviewStatus struct {
	UserID            int64       `json:"user_id"`
	QuestionID        int64       `json:"question_id"`
	Status            ReviewState `json:"review_status"`
	RetryCount        int         `json:"retry_count"`
	CorrectRetryCount int         `json:"correct_retry_count"`
	LastReviewedAt    *time.Time  `json:"last_reviewed_at"`
	NextReviewDate    *time.Time  `json:"next_review_date"`
}
