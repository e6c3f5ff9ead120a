package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/yungbote/lore-backend/internal/data/repos"
	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/pkg/timewindow"
	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

const MaxMomentRunes = 4000

var nowFunc = time.Now

type MomentService interface {
	// Add stores a moment for the caller and touches their last-recap timestamp.
	Add(ctx context.Context, text string) error
	// ListToday returns the caller's moments for the current reference day, newest first.
	ListToday(ctx context.Context) ([]*types.Moment, error)
}

type momentService struct {
	db         *gorm.DB
	log        *logger.Logger
	momentRepo repos.MomentRepo
	metaRepo   repos.UserMetaRepo
	loc        *time.Location
}

func NewMomentService(db *gorm.DB, log *logger.Logger, momentRepo repos.MomentRepo, metaRepo repos.UserMetaRepo, loc *time.Location) MomentService {
	if loc == nil {
		loc = time.UTC
	}
	return &momentService{
		db:         db,
		log:        log.With("service", "MomentService"),
		momentRepo: momentRepo,
		metaRepo:   metaRepo,
		loc:        loc,
	}
}

func (ms *momentService) Add(ctx context.Context, text string) error {
	rd, err := requireUser(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is required", apierr.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(text) > MaxMomentRunes {
		return fmt.Errorf("%w: text exceeds %d characters", apierr.ErrInvalidArgument, MaxMomentRunes)
	}
	now := nowFunc().UTC()
	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := ms.momentRepo.Create(dbc, &types.Moment{
			UserID:    rd.UserID,
			Text:      text,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("insert moment: %w", err)
		}
		if err := ms.metaRepo.TouchLastRecapAt(dbc, rd.UserID, now); err != nil {
			return fmt.Errorf("touch last recap: %w", err)
		}
		return nil
	})
}

func (ms *momentService) ListToday(ctx context.Context) ([]*types.Moment, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	today := timewindow.Today(nowFunc(), ms.loc)
	return ms.momentRepo.ListForUserSince(dbctx.New(ctx), rd.UserID, today.Start)
}
