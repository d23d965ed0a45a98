package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/dbctx"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type CaptureAttemptRepo interface {
	Create(dbc dbctx.Context, row *domain.CaptureAttempt) error
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.CaptureAttempt, error)
	DeleteBySession(dbc dbctx.Context, sessionID uuid.UUID) error
}

type captureAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaptureAttemptRepo(db *gorm.DB, baseLog *logger.Logger) CaptureAttemptRepo {
	return &captureAttemptRepo{db: db, log: baseLog.With("repo", "CaptureAttemptRepo")}
}

func (r *captureAttemptRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *captureAttemptRepo) Create(dbc dbctx.Context, row *domain.CaptureAttempt) error {
	if row == nil {
		return nil
	}
	return r.handle(dbc).Create(row).Error
}

func (r *captureAttemptRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID, limit int) ([]*domain.CaptureAttempt, error) {
	if sessionID == uuid.Nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var rows []*domain.CaptureAttempt
	err := r.handle(dbc).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *captureAttemptRepo) DeleteBySession(dbc dbctx.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return nil
	}
	return r.handle(dbc).
		Where("session_id = ?", sessionID).
		Delete(&domain.CaptureAttempt{}).Error
}
