package user

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type UserMetaRepo interface {
	Get(dbc dbctx.Context, userID string) (*types.UserMeta, error)
	// GetOrCreate inserts defaults when no row exists and returns the stored row.
	// Concurrent callers all observe the same row.
	GetOrCreate(dbc dbctx.Context, defaults *types.UserMeta) (*types.UserMeta, error)
	UpdateArtStyle(dbc dbctx.Context, userID string, style types.ArtStyle) error
	// TouchLastRecapAt sets last_recap_at, creating the row with defaults if needed.
	TouchLastRecapAt(dbc dbctx.Context, userID string, at time.Time) error
	// ListEligible pages users whose last recap is absent or strictly older than
	// asOf-threshold, ordered by user id, starting after cursor.
	ListEligible(dbc dbctx.Context, asOf time.Time, threshold time.Duration, cursor string, limit int) ([]*types.UserMeta, error)
}

type userMetaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserMetaRepo(db *gorm.DB, baseLog *logger.Logger) UserMetaRepo {
	return &userMetaRepo{
		db:  db,
		log: baseLog.With("repo", "UserMetaRepo"),
	}
}

func (r *userMetaRepo) Get(dbc dbctx.Context, userID string) (*types.UserMeta, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == "" {
		return nil, nil
	}
	var row types.UserMeta
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *userMetaRepo) GetOrCreate(dbc dbctx.Context, defaults *types.UserMeta) (*types.UserMeta, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if defaults == nil || defaults.UserID == "" {
		return nil, nil
	}
	existing, err := r.Get(dbc, defaults.UserID)
	if err != nil || existing != nil {
		return existing, err
	}
	row := *defaults
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, defaults.UserID)
}

func (r *userMetaRepo) UpdateArtStyle(dbc dbctx.Context, userID string, style types.ArtStyle) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	row := types.NewUserMeta(userID, "")
	row.ArtStyle = style
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"art_style"}),
		}).
		Create(row).Error
}

func (r *userMetaRepo) TouchLastRecapAt(dbc dbctx.Context, userID string, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	at = at.UTC()
	row := types.NewUserMeta(userID, "")
	row.LastRecapAt = &at
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_recap_at"}),
		}).
		Create(row).Error
}

func (r *userMetaRepo) ListEligible(dbc dbctx.Context, asOf time.Time, threshold time.Duration, cursor string, limit int) ([]*types.UserMeta, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.UserMeta{}
	if limit <= 0 {
		return out, nil
	}
	cutoff := asOf.Add(-threshold).UTC()
	q := transaction.WithContext(dbc.Ctx).
		Where("(last_recap_at IS NULL OR last_recap_at < ?)", cutoff)
	if cursor != "" {
		q = q.Where("user_id > ?", cursor)
	}
	if err := q.Order("user_id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
