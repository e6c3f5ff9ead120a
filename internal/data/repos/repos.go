package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/data/repos/jobs"
	"github.com/yungbote/lore-backend/internal/data/repos/journal"
	"github.com/yungbote/lore-backend/internal/data/repos/user"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type MomentRepo = journal.MomentRepo
type RecapRepo = journal.RecapRepo
type UserMetaRepo = user.UserMetaRepo
type RecapRunRepo = jobs.RecapRunRepo

func NewMomentRepo(db *gorm.DB, baseLog *logger.Logger) MomentRepo {
	return journal.NewMomentRepo(db, baseLog)
}

func NewRecapRepo(db *gorm.DB, baseLog *logger.Logger) RecapRepo {
	return journal.NewRecapRepo(db, baseLog)
}

func NewUserMetaRepo(db *gorm.DB, baseLog *logger.Logger) UserMetaRepo {
	return user.NewUserMetaRepo(db, baseLog)
}

func NewRecapRunRepo(db *gorm.DB, baseLog *logger.Logger) RecapRunRepo {
	return jobs.NewRecapRunRepo(db, baseLog)
}

// Set bundles every repository over one connection.
type Set struct {
	Moments   MomentRepo
	Recaps    RecapRepo
	UserMeta  UserMetaRepo
	RecapRuns RecapRunRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Moments:   NewMomentRepo(db, baseLog),
		Recaps:    NewRecapRepo(db, baseLog),
		UserMeta:  NewUserMetaRepo(db, baseLog),
		RecapRuns: NewRecapRunRepo(db, baseLog),
	}
}
