package services

import (
	"context"
	"fmt"

	redisclients "github.com/yungbote/converse-backend/internal/clients/redis"
	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// ResumptionService publishes finished captures onto the Redis bus so the
// script runtime that suspended on the capture can continue its turn.
type ResumptionService interface {
	Resolve(ctx context.Context, res domain.CaptureResolution) error
}

type resumptionService struct {
	log *logger.Logger
	bus redisclients.ResumptionBus
}

func NewResumptionService(log *logger.Logger, bus redisclients.ResumptionBus) ResumptionService {
	return &resumptionService{
		log: log.With("service", "ResumptionService"),
		bus: bus,
	}
}

func (s *resumptionService) Resolve(ctx context.Context, res domain.CaptureResolution) error {
	if res.SessionID == "" {
		return fmt.Errorf("resolution session_id required")
	}
	if res.ContinuationID == "" {
		return fmt.Errorf("resolution continuation_id required")
	}
	if err := s.bus.Publish(ctx, res); err != nil {
		return fmt.Errorf("publish resolution: %w", err)
	}
	s.log.Debug("capture resolution published",
		"session_id", res.SessionID, "variable", res.Variable, "ok", res.OK)
	return nil
}
