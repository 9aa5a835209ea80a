package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/exam-results", s.handleSubmitExamResult)
		r.Get("/exam-results/{id}", s.handleGetExamResult)
		r.Get("/stats/global", s.handleGlobalSummary)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/exam-results", s.handleListExamResults)
			r.Delete("/exam-results/{id}", s.handleDeleteExamResult)

			r.Get("/summary", s.handleUserSummary)
			r.Get("/daily-stats", s.handleDailyStats)
			r.Get("/subjects", s.handleSubjectBreakdown)

			r.Get("/reviews/due", s.handleDueReviews)
			r.Get("/reviews/{questionID}", s.handleGetReviewStatus)
			r.Post("/reviews/{questionID}/attempts", s.handleRecordReviewAttempt)
			r.Put("/reviews/{questionID}/status", s.handleSetReviewStatus)

			r.Get("/wrong-answers", s.handleWrongAnswers)
		})
	})

	return r
}
