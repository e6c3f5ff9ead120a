package journal

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type RecapRepo interface {
	// CreateOnce inserts the recap unless a row with the same run key exists,
	// and returns the persisted row either way.
	CreateOnce(dbc dbctx.Context, recap *types.Recap) (*types.Recap, error)
	GetByRunKey(dbc dbctx.Context, runKey string) (*types.Recap, error)
	ListForUser(dbc dbctx.Context, userID string) ([]*types.Recap, error)
	GetForUser(dbc dbctx.Context, userID string, id int64) (*types.Recap, error)
}

type recapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecapRepo(db *gorm.DB, baseLog *logger.Logger) RecapRepo {
	return &recapRepo{
		db:  db,
		log: baseLog.With("repo", "RecapRepo"),
	}
}

func (r *recapRepo) CreateOnce(dbc dbctx.Context, recap *types.Recap) (*types.Recap, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if recap == nil {
		return nil, nil
	}
	if recap.Type == "" {
		recap.Type = types.RecapTypeDaily
	}
	if err := recap.Validate(); err != nil {
		return nil, err
	}
	row := *recap
	row.ID = 0
	if !row.CreatedAt.IsZero() {
		row.CreatedAt = row.CreatedAt.UTC()
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_key"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	out, err := r.GetByRunKey(dbc, recap.RunKey)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("recap for run %q missing after insert", recap.RunKey)
	}
	return out, nil
}

func (r *recapRepo) GetByRunKey(dbc dbctx.Context, runKey string) (*types.Recap, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if runKey == "" {
		return nil, nil
	}
	var row types.Recap
	if err := transaction.WithContext(dbc.Ctx).
		Where("run_key = ?", runKey).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *recapRepo) ListForUser(dbc dbctx.Context, userID string) ([]*types.Recap, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Recap{}
	if userID == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUser returns nil when the id is missing or belongs to another user.
func (r *recapRepo) GetForUser(dbc dbctx.Context, userID string, id int64) (*types.Recap, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == "" || id <= 0 {
		return nil, nil
	}
	var row types.Recap
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}
