package services

import (
	"context"

	"github.com/yungbote/lore-backend/internal/data/repos"
	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type UserService interface {
	// GetPreferences returns the caller's UserMeta, creating it with defaults on first read.
	GetPreferences(ctx context.Context) (*types.UserMeta, error)
	UpdateArtStyle(ctx context.Context, style string) error
}

type userService struct {
	log      *logger.Logger
	metaRepo repos.UserMetaRepo
}

func NewUserService(log *logger.Logger, metaRepo repos.UserMetaRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		metaRepo: metaRepo,
	}
}

func (us *userService) GetPreferences(ctx context.Context) (*types.UserMeta, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return us.metaRepo.GetOrCreate(dbctx.New(ctx), types.NewUserMeta(rd.UserID, rd.Email))
}

func (us *userService) UpdateArtStyle(ctx context.Context, style string) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	parsed, err := types.ParseArtStyle(style)
	if err != nil {
		return err
	}
	if err := us.metaRepo.UpdateArtStyle(dbctx.New(ctx), rd.UserID, parsed); err != nil {
		return err
	}
	us.log.Info("art style updated", "user_id", rd.UserID, "art_style", string(parsed))
	return nil
}
