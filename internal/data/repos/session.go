package repos

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/dbctx"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, row *domain.Session) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Session, error)
	GetByChannelUser(dbc dbctx.Context, channel, channelUserID string) (*domain.Session, error)
	UpdateVariables(dbc dbctx.Context, id uuid.UUID, variables datatypes.JSON) error
	Upsert(dbc dbctx.Context, row *domain.Session) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) handle(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *sessionRepo) Create(dbc dbctx.Context, row *domain.Session) error {
	if row == nil {
		return nil
	}
	return r.handle(dbc).Create(row).Error
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Session, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Session
	err := r.handle(dbc).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *sessionRepo) GetByChannelUser(dbc dbctx.Context, channel, channelUserID string) (*domain.Session, error) {
	if channel == "" || channelUserID == "" {
		return nil, nil
	}
	var row domain.Session
	err := r.handle(dbc).
		Where("channel = ? AND channel_user_id = ?", channel, channelUserID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *sessionRepo) UpdateVariables(dbc dbctx.Context, id uuid.UUID, variables datatypes.JSON) error {
	if id == uuid.Nil {
		return nil
	}
	return r.handle(dbc).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("variables", variables).Error
}

func (r *sessionRepo) Upsert(dbc dbctx.Context, row *domain.Session) error {
	if row == nil {
		return nil
	}
	return r.handle(dbc).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel"}, {Name: "channel_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"locale", "updated_at"}),
		}).
		Create(row).Error
}
