package jobs

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type RecapRunRepo interface {
	// Begin inserts the run if absent and returns the stored row.
	Begin(dbc dbctx.Context, run *types.RecapRun) (*types.RecapRun, error)
	Get(dbc dbctx.Context, runKey string) (*types.RecapRun, error)
	UpdateFields(dbc dbctx.Context, runKey string, updates map[string]interface{}) error
	MarkStage(dbc dbctx.Context, runKey string, stage string) error
	MarkFailed(dbc dbctx.Context, runKey string, stage string, cause error) error
}

type recapRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecapRunRepo(db *gorm.DB, baseLog *logger.Logger) RecapRunRepo {
	return &recapRunRepo{
		db:  db,
		log: baseLog.With("repo", "RecapRunRepo"),
	}
}

func (r *recapRunRepo) Begin(dbc dbctx.Context, run *types.RecapRun) (*types.RecapRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil || run.RunKey == "" {
		return nil, nil
	}
	row := *run
	if row.Status == "" {
		row.Status = types.RecapRunStatusRunning
	}
	if row.Stage == "" {
		row.Stage = types.RecapStageLoadMeta
	}
	row.WindowStart = row.WindowStart.UTC()
	row.WindowEnd = row.WindowEnd.UTC()
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_key"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, run.RunKey)
}

func (r *recapRunRepo) Get(dbc dbctx.Context, runKey string) (*types.RecapRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if runKey == "" {
		return nil, nil
	}
	var row types.RecapRun
	if err := transaction.WithContext(dbc.Ctx).
		Where("run_key = ?", runKey).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.RunKey == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *recapRunRepo) UpdateFields(dbc dbctx.Context, runKey string, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if runKey == "" || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.RecapRun{}).
		Where("run_key = ?", runKey).
		Updates(updates).Error
}

func (r *recapRunRepo) MarkStage(dbc dbctx.Context, runKey string, stage string) error {
	return r.UpdateFields(dbc, runKey, map[string]interface{}{
		"stage": stage,
	})
}

func (r *recapRunRepo) MarkFailed(dbc dbctx.Context, runKey string, stage string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.UpdateFields(dbc, runKey, map[string]interface{}{
		"status":   types.RecapRunStatusFailed,
		"stage":    stage,
		"error":    msg,
		"attempts": gorm.Expr("attempts + 1"),
	})
}
