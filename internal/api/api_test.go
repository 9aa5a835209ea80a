package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wrongnote/internal/api"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository/sqlite"
	"github.com/vytor/wrongnote/internal/services"
	"github.com/vytor/wrongnote/internal/testutil"
)

var testNow = time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger.SetDefault(logger.New(logger.WithOutput(io.Discard)))

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	clock := func() time.Time { return testNow }
	examRepo := sqlite.NewExamResultRepository(db)
	dailyRepo := sqlite.NewDailyStatRepository(db)
	globalRepo := sqlite.NewGlobalStatRepository(db)
	reviewRepo := sqlite.NewReviewStatusRepository(db)

	daily := services.NewDailyStatsService(dailyRepo, services.NewGlobalStatsService(globalRepo), time.UTC)
	srv := api.NewServer(
		services.NewExamResultService(examRepo, daily, clock),
		daily,
		services.NewSummaryService(examRepo, dailyRepo, globalRepo, time.UTC),
		services.NewReviewService(reviewRepo, clock),
		services.NewWrongAnswerService(examRepo, time.UTC, 20, clock),
		db,
	)
	return srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r).WithContext(context.Background())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSubmitAndSummaries(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/exam-results", map[string]any{
		"user_id":         1,
		"exam_name":       "mock 1",
		"exam_date":       "2024-04-10T08:00:00Z",
		"total_questions": 2,
		"correct_count":   1,
		"elapsed_time":    120,
		"subject_stats":   map[string]any{"math": map[string]int{"total": 2, "correct": 1}},
		"answers": []map[string]any{
			{"question_id": 100, "selected_option": 1, "is_correct": true, "tags": []string{"algebra"}},
			{"question_id": 101, "selected_option": 3, "is_correct": false, "tags": []string{"geometry"}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.ExamResultRecord](t, rec)
	assert.Greater(t, created.ID, int64(0))

	rec = do(t, h, http.MethodGet, "/api/users/1/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[models.UserSummary](t, rec)
	assert.Equal(t, 2, sum.TotalSolved)
	assert.Equal(t, 1, sum.CurrentStreak)
	assert.Equal(t, models.SourcePersisted, sum.Source)

	rec = do(t, h, http.MethodGet, "/api/stats/global", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	global := decode[models.GlobalSummary](t, rec)
	assert.Equal(t, 1, global.TotalUsers)
	assert.InDelta(t, 0.5, global.AvgCorrectRate, 1e-9)

	rec = do(t, h, http.MethodGet, "/api/users/1/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	subjects := decode[[]models.SubjectBreakdown](t, rec)
	require.Len(t, subjects, 1)
	assert.Equal(t, "math", subjects[0].Subject)

	rec = do(t, h, http.MethodGet, "/api/users/1/daily-stats?from=2024-04-01&to=2024-04-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.DailyStat](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/users/1/wrong-answers?sort=last_wrong_date_desc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	wrong := decode[models.WrongAnswerSummary](t, rec)
	assert.Equal(t, 1, wrong.TotalWrong)
	require.Len(t, wrong.Questions, 1)
	assert.Equal(t, int64(101), wrong.Questions[0].QuestionID)
	assert.Len(t, wrong.Trend, 30)
	assert.Equal(t, 1, wrong.Trend[29].WrongCount)

	rec = do(t, h, http.MethodGet, "/api/users/1/exam-results?exam=mock%201", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.ExamResultRecord](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/users/2/exam-results/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/users/1/exam-results/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/exam-results/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/exam-results", map[string]any{"exam_name": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]map[string]string](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body["error"]["code"])
	assert.Contains(t, body["error"]["message"], "user_id")

	rec = do(t, h, http.MethodPost, "/api/exam-results", map[string]any{"user_id": 1, "exam_name": "x", "bogus": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewFlow(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/users/1/reviews/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ReviewNotStarted, decode[models.ReviewStatus](t, rec).Status)

	var st models.ReviewStatus
	for i := 0; i < 3; i++ {
		rec = do(t, h, http.MethodPost, "/api/users/1/reviews/5/attempts", map[string]any{"is_correct": true})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		st = decode[models.ReviewStatus](t, rec)
	}
	assert.Equal(t, models.ReviewCompleted, st.Status)
	assert.Nil(t, st.NextReviewDate)

	rec = do(t, h, http.MethodPost, "/api/users/1/reviews/6/attempts", map[string]any{"is_correct": false})
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[models.ReviewStatus](t, rec)
	assert.Equal(t, models.ReviewReviewing, st.Status)
	require.NotNil(t, st.NextReviewDate)
	assert.True(t, st.NextReviewDate.Equal(testNow.AddDate(0, 0, 1)))

	rec = do(t, h, http.MethodPost, "/api/users/1/reviews/6/attempts", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/users/1/reviews/6/status", map[string]any{"review_status": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.ReviewStatus](t, rec).NextReviewDate)

	rec = do(t, h, http.MethodPut, "/api/users/1/reviews/6/status", map[string]any{"review_status": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/1/reviews/due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.ReviewStatus](t, rec))
}

func TestBadPathParams(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/api/users/abc/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/users/1/wrong-answers?since=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
