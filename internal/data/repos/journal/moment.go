package journal

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type MomentRepo interface {
	Create(dbc dbctx.Context, moment *types.Moment) (*types.Moment, error)
	// ListForUserBetween returns moments with start <= created_at < end, oldest first.
	ListForUserBetween(dbc dbctx.Context, userID string, start, end time.Time) ([]*types.Moment, error)
	// ListForUserSince returns moments with created_at >= since, newest first.
	ListForUserSince(dbc dbctx.Context, userID string, since time.Time) ([]*types.Moment, error)
}

type momentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMomentRepo(db *gorm.DB, baseLog *logger.Logger) MomentRepo {
	return &momentRepo{
		db:  db,
		log: baseLog.With("repo", "MomentRepo"),
	}
}

func (r *momentRepo) Create(dbc dbctx.Context, moment *types.Moment) (*types.Moment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if moment == nil {
		return nil, nil
	}
	moment.ID = 0
	if !moment.CreatedAt.IsZero() {
		moment.CreatedAt = moment.CreatedAt.UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).Create(moment).Error; err != nil {
		return nil, err
	}
	return moment, nil
}

func (r *momentRepo) ListForUserBetween(dbc dbctx.Context, userID string, start, end time.Time) ([]*types.Moment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Moment{}
	if userID == "" || !start.Before(end) {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start.UTC(), end.UTC()).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *momentRepo) ListForUserSince(dbc dbctx.Context, userID string, since time.Time) ([]*types.Moment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Moment{}
	if userID == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
