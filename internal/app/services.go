package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/converse-backend/internal/capture"
	"github.com/yungbote/converse-backend/internal/data/repos"
	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/dbctx"
	"github.com/yungbote/converse-backend/internal/platform/logger"
	"github.com/yungbote/converse-backend/internal/services"
	"github.com/yungbote/converse-backend/internal/validate"
)

type Repos struct {
	Sessions repos.SessionRepo
	Attempts repos.CaptureAttemptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Sessions: repos.NewSessionRepo(db, log),
		Attempts: repos.NewCaptureAttemptRepo(db, log),
	}
}

type Services struct {
	Sessions    services.SessionService
	Prompts     services.PromptService
	Resumptions services.ResumptionService
	Auth        services.AuthCallbackService

	Registry   *validate.Registry
	Supervisor *capture.Supervisor
	Controller *capture.Controller
}

// attemptRecorder adapts the audit repo to the supervisor's Recorder.
type attemptRecorder struct {
	repo repos.CaptureAttemptRepo
}

func (r attemptRecorder) Record(ctx context.Context, att *domain.CaptureAttempt) error {
	return r.repo.Create(dbctx.New(ctx), att)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	prompts := services.NewPromptService(log, clients.PromptBus)
	resumptions := services.NewResumptionService(log, clients.ResumptionBus)

	auth, err := services.NewAuthCallbackService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init auth callback service: %w", err)
	}

	policy := validate.DefaultPolicy()
	policy.DayFirst = cfg.DateDayFirst
	registry := validate.NewDefault(log, clients.Gateway, clients.Assets, policy)

	supervisor := capture.NewSupervisor(log, registry, attemptRecorder{repo: reposet.Attempts})
	controller := capture.NewController(log, clients.CaptureStore, supervisor, prompts, nil)

	sessions := services.NewSessionService(db, log, reposet.Sessions, controller)

	// The controller binds through the session service; the session service
	// cancels through the controller. Close the loop after both exist.
	controller.SetBinder(sessions)

	// Finished captures go back to the script runtime over the bus.
	controller.SetResumer(func(ctx context.Context, r capture.Resumption) {
		res := domain.CaptureResolution{
			SessionID:      r.SessionID.String(),
			ContinuationID: r.ContinuationID.String(),
			Variable:       r.Variable,
			Value:          r.Value,
			Metadata:       r.Metadata,
			OK:             r.OK,
		}
		if err := resumptions.Resolve(ctx, res); err != nil {
			log.Warn("resolution publish failed",
				"session_id", res.SessionID, "variable", res.Variable, "error", err)
		}
	})

	return Services{
		Sessions:    sessions,
		Prompts:     prompts,
		Resumptions: resumptions,
		Auth:        auth,
		Registry:    registry,
		Supervisor:  supervisor,
		Controller:  controller,
	}, nil
}
