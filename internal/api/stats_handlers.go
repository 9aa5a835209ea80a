package api

import (
	"net/http"
	"time"
)

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	sum, err := s.SummaryService.GetUserSummary(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleGlobalSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.SummaryService.GetGlobalSummary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	from, err := timeQuery(r, "from")
	if err != nil {
		handleError(w, r, err)
		return
	}
	to, err := timeQuery(r, "to")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var fromDay, toDay time.Time
	if from != nil {
		fromDay = *from
	}
	if to != nil {
		toDay = *to
	}

	rows, err := s.DailyStatsService.GetUserDailyStats(r.Context(), userID, fromDay, toDay)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) handleSubjectBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	rows, err := s.SummaryService.GetSubjectBreakdown(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}
