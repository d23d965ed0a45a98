package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/converse-backend/internal/http/handlers"
	httpMW "github.com/yungbote/converse-backend/internal/http/middleware"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	EventsHandler   *httpH.EventsHandler
	SessionsHandler *httpH.SessionsHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("converse-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	v1 := r.Group("/v1")
	{
		if cfg.EventsHandler != nil {
			v1.POST("/events", cfg.EventsHandler.HandleEvent)
		}
		if cfg.SessionsHandler != nil {
			v1.GET("/sessions/:id", cfg.SessionsHandler.GetSession)
			v1.POST("/sessions/:id/captures", cfg.SessionsHandler.BeginCapture)
			v1.POST("/sessions/:id/cancel", cfg.SessionsHandler.CancelCapture)
			v1.POST("/sessions/:id/login", cfg.SessionsHandler.LoginCallback)
		}
	}

	return r
}
