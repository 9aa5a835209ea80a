package api

import (
	"net/http"
	"time"

	"github.com/vytor/wrongnote/internal/models"
)

type answerRequest struct {
	QuestionID     int64    `json:"question_id" validate:"required,gt=0"`
	SelectedOption int      `json:"selected_option" validate:"gte=0"`
	IsCorrect      bool     `json:"is_correct"`
	Tags           []string `json:"tags" validate:"dive,required,max=64"`
}

type submitExamResultRequest struct {
	UserID         int64                         `json:"user_id" validate:"required,gt=0"`
	ExamName       string                        `json:"exam_name" validate:"required,max=200"`
	ExamDate       *time.Time                    `json:"exam_date"`
	ExamSubject    string                        `json:"exam_subject" validate:"max=100"`
	Answers        []answerRequest               `json:"answers" validate:"dive"`
	Score          float64                       `json:"score" validate:"gte=0"`
	CorrectCount   int                           `json:"correct_count" validate:"gte=0"`
	TotalQuestions int                           `json:"total_questions" validate:"gte=0"`
	ElapsedTime    int                           `json:"elapsed_time" validate:"gte=0"`
	SubjectStats   map[string]models.SubjectStat `json:"subject_stats"`
}

func (req submitExamResultRequest) record() models.ExamResultRecord {
	rec := models.ExamResultRecord{
		UserID:         req.UserID,
		ExamName:       req.ExamName,
		ExamSubject:    req.ExamSubject,
		Score:          req.Score,
		CorrectCount:   req.CorrectCount,
		TotalQuestions: req.TotalQuestions,
		ElapsedTime:    req.ElapsedTime,
		SubjectStats:   req.SubjectStats,
		Answers:        make([]models.QuestionAnswer, 0, len(req.Answers)),
	}
	if req.ExamDate != nil {
		rec.ExamDate = *req.ExamDate
	}
	for _, a := range req.Answers {
		rec.Answers = append(rec.Answers, models.QuestionAnswer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			IsCorrect:      a.IsCorrect,
			Tags:           a.Tags,
		})
	}
	return rec
}

func (s *Server) handleSubmitExamResult(w http.ResponseWriter, r *http.Request) {
	var req submitExamResultRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	rec, err := s.ExamResultService.SubmitExamResult(r.Context(), req.record())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

func (s *Server) handleGetExamResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	rec, err := s.ExamResultService.GetExamResult(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleListExamResults(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	filter := models.ExamResultFilter{UserID: userID, ExamName: r.URL.Query().Get("exam")}
	if filter.Since, err = timeQuery(r, "since"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Limit, err = intQuery(r, "limit", 50); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = intQuery(r, "offset", 0); err != nil {
		handleError(w, r, err)
		return
	}

	recs, err := s.ExamResultService.ListExamResults(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recs)
}

func (s *Server) handleDeleteExamResult(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ExamResultService.DeleteExamResult(r.Context(), userID, id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
