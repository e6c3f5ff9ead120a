package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/lore-backend/internal/platform/apierr"
	"github.com/yungbote/lore-backend/internal/platform/ctxutil"
	"github.com/yungbote/lore-backend/internal/platform/identity"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

type AuthService interface {
	// SetContextFromToken verifies the bearer token and attaches the caller to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log      *logger.Logger
	verifier identity.Verifier
}

func NewAuthService(log *logger.Logger, verifier identity.Verifier) AuthService {
	return &authService{
		log:      log.With("service", "AuthService"),
		verifier: verifier,
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, apierr.ErrUnauthenticated
	}
	id, err := as.verifier.Verify(ctx, tokenString)
	if err != nil {
		as.log.Debug("token rejected", "error", err)
		return ctx, fmt.Errorf("%w: %v", apierr.ErrUnauthenticated, err)
	}
	if id == nil || id.UserID == "" {
		return ctx, apierr.ErrUnauthenticated
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      id.UserID,
		Email:       id.Email,
	}), nil
}

// requireUser returns the caller id or ErrUnauthenticated.
func requireUser(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == "" {
		return nil, apierr.ErrUnauthenticated
	}
	return rd, nil
}
