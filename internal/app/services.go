package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/data/repos"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/services"
)

type Services struct {
	Auth   services.AuthService
	Moment services.MomentService
	Recap  services.RecapService
	User   services.UserService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Set, clients Clients, loc *time.Location) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:   services.NewAuthService(log, clients.Verifier),
		Moment: services.NewMomentService(db, log, reposet.Moments, reposet.UserMeta, loc),
		Recap:  services.NewRecapService(log, reposet.Recaps, clients.Store, cfg.ImageBaseURL),
		User:   services.NewUserService(log, reposet.UserMeta),
	}
}
