package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/data/repos"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/temporalx/recapgen"
	"github.com/yungbote/lore-backend/internal/temporalx/sweep"
	"github.com/yungbote/lore-backend/internal/temporalx/temporalworker"
)

func wireWorker(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Set, clients Clients) (*temporalworker.Runner, error) {
	log.Info("Wiring temporal worker...")
	prompts, err := recapgen.LoadPrompts(log)
	if err != nil {
		return nil, err
	}
	images, err := recapgen.NewImageRenderer(cfg.ImageProvider, clients.AI)
	if err != nil {
		return nil, err
	}
	recapActs := &recapgen.Activities{
		Log:      log.With("component", "RecapActivities"),
		DB:       db,
		Repos:    reposet,
		AI:       clients.AI,
		Images:   images,
		Store:    clients.Store,
		Prompts:  prompts,
		ImageOpt: cfg.ImageOptions,
	}
	sweepActs := &sweep.Activities{
		Log:         log.With("component", "SweepActivities"),
		UserMeta:    reposet.UserMeta,
		Starter:     clients.Temporal,
		TaskQueue:   cfg.Temporal.TaskQueue,
		Leaser:      clients.Leaser,
		LeaseTTL:    cfg.Sweep.LeaseTTL,
		Concurrency: cfg.Sweep.Concurrency,
	}
	return temporalworker.NewRunner(log, clients.Temporal, cfg.Temporal, cfg.Sweep, recapActs, sweepActs)
}
