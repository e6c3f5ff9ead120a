package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"

	redisclient "github.com/yungbote/lore-backend/internal/clients/redis"
	"github.com/yungbote/lore-backend/internal/platform/identity"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/platform/objectstore"
	"github.com/yungbote/lore-backend/internal/platform/openai"
	"github.com/yungbote/lore-backend/internal/temporalx"
)

type Clients struct {
	Store    objectstore.Store
	Verifier identity.Verifier
	AI       openai.Client
	Leaser   redisclient.Leaser
	Temporal temporalsdkclient.Client
}

func wireAPIClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring API clients...")
	store, err := resolveStore(ctx, log, cfg.Storage)
	if err != nil {
		return Clients{}, err
	}
	verifier, err := identity.NewVerifier(log, cfg.Auth, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return Clients{}, fmt.Errorf("init identity verifier: %w", err)
	}
	return Clients{Store: store, Verifier: verifier}, nil
}

func wireWorkerClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring worker clients...")
	store, err := resolveStore(ctx, log, cfg.Storage)
	if err != nil {
		return Clients{}, err
	}
	ai, err := openai.NewClient(log, cfg.AI)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	var leaser redisclient.Leaser
	if cfg.RedisEnabled {
		leaser, err = redisclient.NewLeaser(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis leaser: %w", err)
		}
	} else {
		log.Info("REDIS_ADDR not set; sweep trigger leasing disabled")
	}

	tc, err := temporalx.NewClient(ctx, log, cfg.Temporal)
	if err != nil {
		if leaser != nil {
			_ = leaser.Close()
		}
		return Clients{}, fmt.Errorf("init temporal client: %w", err)
	}
	return Clients{Store: store, AI: ai, Leaser: leaser, Temporal: tc}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Leaser != nil {
		_ = c.Leaser.Close()
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
}
