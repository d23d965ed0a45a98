package app

import (
	"context"
	"fmt"

	redisclients "github.com/yungbote/converse-backend/internal/clients/redis"
	"github.com/yungbote/converse-backend/internal/media"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// Clients bundles process-external connections: Redis and the media AI
// providers.
type Clients struct {
	CaptureStore  *redisclients.CaptureStore
	PromptBus     redisclients.PromptBus
	ResumptionBus redisclients.ResumptionBus

	Assets  *media.AssetService
	Gateway *media.Gateway
}

func wireClients(ctx context.Context, log *logger.Logger) (Clients, error) {
	captureStore, err := redisclients.NewCaptureStore(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init capture store: %w", err)
	}
	promptBus, err := redisclients.NewPromptBus(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init prompt bus: %w", err)
	}
	resumptionBus, err := redisclients.NewResumptionBus(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init resumption bus: %w", err)
	}

	assets, err := media.NewAssetService(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init asset service: %w", err)
	}
	speech, err := media.NewSpeechProvider(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init speech provider: %w", err)
	}
	vision, err := media.NewVisionProvider(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init vision provider: %w", err)
	}
	caption, err := media.NewCaptionProvider(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init caption provider: %w", err)
	}
	video, err := media.NewVideoProvider(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init video provider: %w", err)
	}

	gateway := media.NewGateway(log, assets, speech, vision, caption, video)

	return Clients{
		CaptureStore:  captureStore,
		PromptBus:     promptBus,
		ResumptionBus: resumptionBus,
		Assets:        assets,
		Gateway:       gateway,
	}, nil
}

func (c Clients) Close() {
	if c.Gateway != nil {
		_ = c.Gateway.Close()
	}
	if c.Assets != nil {
		_ = c.Assets.Close()
	}
	if c.CaptureStore != nil {
		_ = c.CaptureStore.Close()
	}
	if c.PromptBus != nil {
		_ = c.PromptBus.Close()
	}
	if c.ResumptionBus != nil {
		_ = c.ResumptionBus.Close()
	}
}
