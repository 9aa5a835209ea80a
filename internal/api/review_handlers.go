package api

import (
	"net/http"

	"github.com/vytor/wrongnote/internal/models"
)

type reviewAttemptRequest struct {
	IsCorrect *bool `json:"is_correct" validate:"required"`
	// ReviewStatus overrides the computed state when present.
	ReviewStatus *int `json:"review_status" validate:"omitempty,min=0,max=2"`
}

type setReviewStatusRequest struct {
	ReviewStatus *int `json:"review_status" validate:"required,min=0,max=2"`
}

func (s *Server) reviewPair(r *http.Request) (int64, int64, error) {
	userID, err := idParam(r, "userID")
	if err != nil {
		return 0, 0, err
	}
	questionID, err := idParam(r, "questionID")
	if err != nil {
		return 0, 0, err
	}
	return userID, questionID, nil
}

func (s *Server) handleRecordReviewAttempt(w http.ResponseWriter, r *http.Request) {
	userID, questionID, err := s.reviewPair(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req reviewAttemptRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var explicit *models.ReviewState
	if req.ReviewStatus != nil {
		st := models.ReviewState(*req.ReviewStatus)
		explicit = &st
	}

	st, err := s.ReviewService.RecordReviewAttempt(r.Context(), userID, questionID, *req.IsCorrect, explicit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (s *Server) handleSetReviewStatus(w http.ResponseWriter, r *http.Request) {
	userID, questionID, err := s.reviewPair(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req setReviewStatusRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	st, err := s.ReviewService.SetReviewStatus(r.Context(), userID, questionID, models.ReviewState(*req.ReviewStatus))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (s *Server) handleGetReviewStatus(w http.ResponseWriter, r *http.Request) {
	userID, questionID, err := s.reviewPair(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	st, err := s.ReviewService.GetReviewStatus(r.Context(), userID, questionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (s *Server) handleDueReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}

	due, err := s.ReviewService.ListDueReviews(r.Context(), userID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, due)
}
