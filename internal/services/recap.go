package services

import (
	"context"
	"fmt"

	"github.com/yungbote/lore-backend/internal/data/repos"
	types "github.com/yungbote/lore-backend/internal/domain"
	"github.com/yungbote/lore-backend/internal/pkg/dbctx"
	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/platform/objectstore"
)

// RecapView is a recap as returned to clients, with a resolvable image URL.
type RecapView struct {
	*types.Recap
	ImageURL string `json:"image_url,omitempty"`
}

type RecapService interface {
	List(ctx context.Context) ([]*RecapView, error)
	// Get returns nil, nil when the recap is missing or owned by someone else.
	Get(ctx context.Context, id int64) (*RecapView, error)
}

type recapService struct {
	log          *logger.Logger
	recapRepo    repos.RecapRepo
	store        objectstore.Store
	imageBaseURL string
}

// NewRecapService resolves image URLs against imageBaseURL, or the store's
// public URL when no base is configured.
func NewRecapService(log *logger.Logger, recapRepo repos.RecapRepo, store objectstore.Store, imageBaseURL string) RecapService {
	return &recapService{
		log:          log.With("service", "RecapService"),
		recapRepo:    recapRepo,
		store:        store,
		imageBaseURL: imageBaseURL,
	}
}

func (rs *recapService) List(ctx context.Context) ([]*RecapView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := rs.recapRepo.ListForUser(dbctx.New(ctx), rd.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]*RecapView, 0, len(rows))
	for _, r := range rows {
		out = append(out, rs.view(r))
	}
	return out, nil
}

func (rs *recapService) Get(ctx context.Context, id int64) (*RecapView, error) {
	rd, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be a positive integer", apierr.ErrInvalidArgument)
	}
	row, err := rs.recapRepo.GetForUser(dbctx.New(ctx), rd.UserID, id)
	if err != nil || row == nil {
		return nil, err
	}
	return rs.view(row), nil
}

func (rs *recapService) view(r *types.Recap) *RecapView {
	v := &RecapView{Recap: r}
	if r.ImageID == nil || *r.ImageID == "" {
		return v
	}
	switch {
	case rs.imageBaseURL != "":
		v.ImageURL = objectstore.JoinURL(rs.imageBaseURL, *r.ImageID)
	case rs.store != nil:
		v.ImageURL = rs.store.PublicURL(*r.ImageID)
	}
	return v
}
