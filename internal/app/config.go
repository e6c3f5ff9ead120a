package app

import (
	"fmt"
	"strings"

	dbpkg "github.com/yungbote/lore-backend/internal/data/db"
	"github.com/yungbote/lore-backend/internal/pkg/timewindow"
	"github.com/yungbote/lore-backend/internal/platform/envutil"
	"github.com/yungbote/lore-backend/internal/platform/identity"
	"github.com/yungbote/lore-backend/internal/platform/imaging"
	"github.com/yungbote/lore-backend/internal/platform/objectstore"
	"github.com/yungbote/lore-backend/internal/platform/openai"
	"github.com/yungbote/lore-backend/internal/temporalx"
	"github.com/yungbote/lore-backend/internal/temporalx/sweep"
)

type Config struct {
	LogMode     string
	Environment string
	ServiceName string
	Version     string
	Port        string

	AllowedOrigins []string
	ImageBaseURL   string
	ImageProvider  string
	ImageOptions   imaging.Options

	// ReferenceTimezone governs day windows for every user.
	ReferenceTimezone string
	RedisEnabled      bool

	DB       dbpkg.Config
	Storage  objectstore.Config
	Auth     identity.Config
	AI       openai.Config
	Temporal temporalx.Config
	Sweep    sweep.Config
}

func LoadConfig() (Config, error) {
	storage, err := objectstore.ResolveConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("object storage config: %w", err)
	}
	cfg := Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: envutil.String("APP_ENV", "development"),
		ServiceName: envutil.String("SERVICE_NAME", "lore-backend"),
		Version:     envutil.String("APP_VERSION", ""),
		Port:        envutil.String("PORT", "8080"),

		AllowedOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		ImageBaseURL:   envutil.String("RECAP_IMAGE_BASE_URL", ""),
		ImageProvider:  envutil.String("RECAP_IMAGE_PROVIDER", "openai"),
		ImageOptions: imaging.Options{
			MaxDimension: envutil.Int("RECAP_IMAGE_MAX_DIMENSION", imaging.DefaultMaxDimension),
			Quality:      envutil.Int("RECAP_IMAGE_JPEG_QUALITY", imaging.DefaultJPEGQuality),
		},

		ReferenceTimezone: envutil.String("RECAP_REFERENCE_TIMEZONE", timewindow.DefaultReferenceTimezone),
		RedisEnabled:      envutil.String("REDIS_ADDR", "") != "",

		DB:       dbpkg.LoadConfig(),
		Storage:  storage,
		Auth:     identity.LoadConfig(),
		AI:       openai.LoadConfig(),
		Temporal: temporalx.LoadConfig(),
		Sweep:    sweep.LoadConfig(),
	}
	if _, err := timewindow.LoadLocation(cfg.ReferenceTimezone); err != nil {
		return Config{}, fmt.Errorf("RECAP_REFERENCE_TIMEZONE: %w", err)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
