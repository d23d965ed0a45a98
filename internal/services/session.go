package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/converse-backend/internal/data/repos"
	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/dbctx"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// CaptureCanceller clears any pending capture for a session. Satisfied by
// the capture controller.
type CaptureCanceller interface {
	Cancel(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

type SessionService interface {
	GetOrCreate(ctx context.Context, channel, channelUserID string) (*domain.Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	BindVariable(ctx context.Context, sessionID uuid.UUID, name string, value any) error
	Reset(ctx context.Context, sessionID uuid.UUID) error
}

type sessionService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.SessionRepo
	canceller CaptureCanceller
}

func NewSessionService(db *gorm.DB, log *logger.Logger, repo repos.SessionRepo, canceller CaptureCanceller) SessionService {
	return &sessionService{
		db:        db,
		log:       log.With("service", "SessionService"),
		repo:      repo,
		canceller: canceller,
	}
}

func (s *sessionService) GetOrCreate(ctx context.Context, channel, channelUserID string) (*domain.Session, error) {
	if channel == "" || channelUserID == "" {
		return nil, fmt.Errorf("channel and channel_user_id required")
	}
	dbc := dbctx.New(ctx)

	sess, err := s.repo.GetByChannelUser(dbc, channel, channelUserID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess != nil {
		return sess, nil
	}

	sess = &domain.Session{
		ID:            uuid.New(),
		Channel:       channel,
		ChannelUserID: channelUserID,
		Locale:        "en",
		Variables:     datatypes.JSON([]byte(`{}`)),
	}
	if err := s.repo.Create(dbc, sess); err != nil {
		// Concurrent first message from the same user: the unique index
		// wins, re-read the row.
		existing, gerr := s.repo.GetByChannelUser(dbc, channel, channelUserID)
		if gerr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.log.Info("session created", "session_id", sess.ID, "channel", channel)
	return sess, nil
}

func (s *sessionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	sess, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// BindVariable merges one variable into the session's variable map inside a
// transaction, so concurrent binds to different variables both survive.
func (s *sessionService) BindVariable(ctx context.Context, sessionID uuid.UUID, name string, value any) error {
	if name == "" {
		return fmt.Errorf("variable name required")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		var sess domain.Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", sessionID).First(&sess).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("session %s not found", sessionID)
			}
			return err
		}

		vars := map[string]any{}
		if len(sess.Variables) > 0 {
			if err := json.Unmarshal(sess.Variables, &vars); err != nil {
				return fmt.Errorf("decode session variables: %w", err)
			}
		}
		vars[name] = value

		raw, err := json.Marshal(vars)
		if err != nil {
			return fmt.Errorf("encode session variables: %w", err)
		}
		return s.repo.UpdateVariables(dbc, sessionID, datatypes.JSON(raw))
	})
}

// Reset aborts any pending capture and clears every bound variable.
func (s *sessionService) Reset(ctx context.Context, sessionID uuid.UUID) error {
	if s.canceller != nil {
		if _, err := s.canceller.Cancel(ctx, sessionID); err != nil {
			return fmt.Errorf("cancel pending capture: %w", err)
		}
	}
	if err := s.repo.UpdateVariables(dbctx.New(ctx), sessionID, datatypes.JSON([]byte(`{}`))); err != nil {
		return fmt.Errorf("clear session variables: %w", err)
	}
	s.log.Info("session reset", "session_id", sessionID)
	return nil
}
