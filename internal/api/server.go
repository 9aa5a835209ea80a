package api

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/wrongnote/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	ExamResultService  services.ExamResultService
	DailyStatsService  services.DailyStatsService
	SummaryService     services.SummaryService
	ReviewService      services.ReviewService
	WrongAnswerService services.WrongAnswerService
	DB                 Pinger

	validate *validator.Validate
}

func NewServer(
	examResultService services.ExamResultService,
	dailyStatsService services.DailyStatsService,
	summaryService services.SummaryService,
	reviewService services.ReviewService,
	wrongAnswerService services.WrongAnswerService,
	db Pinger,
) *Server {
	return &Server{
		ExamResultService:  examResultService,
		DailyStatsService:  dailyStatsService,
		SummaryService:     summaryService,
		ReviewService:      reviewService,
		WrongAnswerService: wrongAnswerService,
		DB:                 db,
		validate:           newValidator(),
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
