package services

import (
	"context"

	"github.com/vytor/wrongnote/internal/errors"
	"github.com/vytor/wrongnote/internal/logger"
	"github.com/vytor/wrongnote/internal/models"
	"github.com/vytor/wrongnote/internal/repository"
)

// GlobalStatsService maintains the cross-user aggregate
type GlobalStatsService interface {
	ApplyDelta(ctx context.Context, delta models.GlobalDelta) (models.GlobalStat, error)
}

type globalStatsService struct {
	globalRepo repository.GlobalStatRepository
}

// NewGlobalStatsService creates a new GlobalStatsService
func NewGlobalStatsService(globalRepo repository.GlobalStatRepository) GlobalStatsService {
	return &globalStatsService{globalRepo: globalRepo}
}

func (s *globalStatsService) ApplyDelta(ctx context.Context, delta models.GlobalDelta) (models.GlobalStat, error) {
	log := logger.FromContext(ctx).WithPrefix("global_stats")

	g, err := s.globalRepo.ApplyDelta(ctx, delta)
	if err != nil {
		log.Error("failed to apply global delta: %v", err)
		return models.GlobalStat{}, errors.NewInternalError(err)
	}

	log.WithFields(map[string]any{
		"version":     g.Version,
		"total_users": g.TotalUsers,
	}).Debug("global stats updated")
	return g, nil
}
