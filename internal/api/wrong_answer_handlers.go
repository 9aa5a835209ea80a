package api

import (
	"net/http"

	"github.com/vytor/wrongnote/internal/models"
)

// handleWrongAnswers serves the wrong-note summary. A missing limit uses the
// configured default.
func (s *Server) handleWrongAnswers(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	q := r.URL.Query()

	filter := models.WrongAnswerFilter{ExamName: q.Get("exam")}
	if filter.Since, err = timeQuery(r, "since"); err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sum, err := s.WrongAnswerService.GetWrongAnswerSummary(r.Context(), userID, filter, models.ParseWrongAnswerSort(q.Get("sort")), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}
