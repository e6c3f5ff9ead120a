package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/lore-backend/internal/platform/gcp"
	"github.com/yungbote/lore-backend/internal/platform/logger"
	"github.com/yungbote/lore-backend/internal/platform/objectstore"
	"github.com/yungbote/lore-backend/internal/platform/s3store"
)

var (
	newBucketStore = gcp.NewBucketStore
	newS3Store     = s3store.New
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorInvalidConfig       StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveStore opens the object store selected by OBJECT_STORAGE_MODE.
func resolveStore(ctx context.Context, log *logger.Logger, cfg objectstore.Config) (objectstore.Store, error) {
	log.Info("Selecting object storage provider",
		"mode", cfg.Mode,
		"mode_source", cfg.ModeSource(),
		"emulator_host", cfg.EmulatorHost,
		"bucket", cfg.Bucket,
	)

	var (
		store objectstore.Store
		err   error
	)
	switch cfg.Mode {
	case objectstore.ModeGCS, objectstore.ModeGCSEmulator:
		store, err = newBucketStore(ctx, log, cfg)
	case objectstore.ModeS3:
		store, err = newS3Store(ctx, log, cfg)
	case objectstore.ModeMemory:
		log.Warn("Using in-memory object storage; images do not survive restarts")
		store = objectstore.NewMemoryStore(cfg.PublicBaseURL)
	default:
		err = &objectstore.ConfigError{Code: objectstore.ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if err != nil {
		classified := classifyStorageProviderBootstrapError(cfg, err)
		log.Error("Object storage provider bootstrap failed", "mode", cfg.Mode, "error", classified)
		return nil, classified
	}
	return store, nil
}

func classifyStorageProviderBootstrapError(cfg objectstore.Config, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *objectstore.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case objectstore.ConfigErrorInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case objectstore.ConfigErrorMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case objectstore.ConfigErrorInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		default:
			code = StorageProviderBootstrapErrorInvalidConfig
		}
	}
	return &StorageProviderBootstrapError{Code: code, Mode: string(cfg.Mode), Cause: err}
}
