package app

import (
	httpx "github.com/yungbote/converse-backend/internal/http"
	httpH "github.com/yungbote/converse-backend/internal/http/handlers"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type Handlers struct {
	Events   *httpH.EventsHandler
	Sessions *httpH.SessionsHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(serviceset Services) Handlers {
	return Handlers{
		Events:   httpH.NewEventsHandler(serviceset.Sessions, serviceset.Controller),
		Sessions: httpH.NewSessionsHandler(serviceset.Sessions, serviceset.Controller, serviceset.Auth),
		Health:   httpH.NewHealthHandler(),
	}
}

func wireRouter(log *logger.Logger, handlerset Handlers) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:             log,
		EventsHandler:   handlerset.Events,
		SessionsHandler: handlerset.Sessions,
		HealthHandler:   handlerset.Health,
	})
}
