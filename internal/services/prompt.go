package services

import (
	"context"
	"fmt"

	redisclients "github.com/yungbote/converse-backend/internal/clients/redis"
	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// PromptService pushes outbound prompts onto the Redis bus for the
// transport adapters. It satisfies the capture controller's Prompter.
type PromptService interface {
	Send(ctx context.Context, prompt domain.OutboundPrompt) error
}

type promptService struct {
	log *logger.Logger
	bus redisclients.PromptBus
}

func NewPromptService(log *logger.Logger, bus redisclients.PromptBus) PromptService {
	return &promptService{
		log: log.With("service", "PromptService"),
		bus: bus,
	}
}

func (s *promptService) Send(ctx context.Context, prompt domain.OutboundPrompt) error {
	if prompt.SessionID == "" {
		return fmt.Errorf("prompt session_id required")
	}
	if prompt.Text == "" {
		return fmt.Errorf("prompt text required")
	}
	if err := s.bus.Publish(ctx, prompt); err != nil {
		return fmt.Errorf("publish prompt: %w", err)
	}
	s.log.Debug("prompt published",
		"session_id", prompt.SessionID, "kind", prompt.Kind, "suggestions", len(prompt.Suggestions))
	return nil
}
