package review

import (
	"time"

	"github.com/vytor/wrongnote/internal/models"
)

// CompletionThreshold is the number of correct retries that completes a review.
const CompletionThreshold = 3

// Interval returns the wait before the next review given the number of correct
// retries so far: 1, 3, 7, then 14 days.
func Interval(correctRetries int) time.Duration {
	days := 14
	switch {
	case correctRetries <= 0:
		days = 1
	case correctRetries == 1:
		days = 3
	case correctRetries == 2:
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// Reschedule derives state and next review date from counters that already
// include the current attempt, so the interval is keyed by the post-increment
// correct count. A non-nil override replaces the computed state.
func Reschedule(s models.ReviewStatus, override *models.ReviewState, now time.Time) models.ReviewStatus {
	switch {
	case override != nil:
		s.Status = *override
	case s.CorrectRetryCount >= CompletionThreshold:
		s.Status = models.ReviewCompleted
	default:
		s.Status = models.ReviewReviewing
	}

	reviewed := now
	s.LastReviewedAt = &reviewed
	if s.Status == models.ReviewCompleted {
		s.NextReviewDate = nil
	} else {
		next := now.Add(Interval(s.CorrectRetryCount))
		s.NextReviewDate = &next
	}
	return s
}

// SetStatus applies an administrative status change without attempt semantics.
// Completing clears the next review date; any other state leaves it alone.
func SetStatus(s models.ReviewStatus, status models.ReviewState) models.ReviewStatus {
	s.Status = status
	if status == models.ReviewCompleted {
		s.NextReviewDate = nil
	}
	return s
}
