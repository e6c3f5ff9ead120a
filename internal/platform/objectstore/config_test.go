package objectstore

import (
	"errors"
	"testing"
)

func clearObjectStorageEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OBJECT_STORAGE_MODE", "OBJECT_STORAGE_BUCKET", "STORAGE_EMULATOR_HOST", "OBJECT_STORAGE_PUBLIC_BASE_URL",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_FORCE_PATH_STYLE",
	} {
		t.Setenv(k, "")
	}
}

func TestResolveConfigFromEnvDefaultGCS(t *testing.T) {
	clearObjectStorageEnv(t)
	t.Setenv("OBJECT_STORAGE_BUCKET", "lore-images")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Mode != ModeGCS {
		t.Fatalf("mode: want=%q got=%q", ModeGCS, cfg.Mode)
	}
	if cfg.CompatibilityFallback {
		t.Fatalf("compatibility fallback: want=false got=true")
	}
}

func TestResolveConfigFromEnvCompatibilityFallback(t *testing.T) {
	clearObjectStorageEnv(t)
	t.Setenv("OBJECT_STORAGE_BUCKET", "lore-images")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443/")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Mode != ModeGCSEmulator || !cfg.CompatibilityFallback {
		t.Fatalf("want emulator via fallback, got mode=%q fallback=%v", cfg.Mode, cfg.CompatibilityFallback)
	}
	if cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host: want trailing slash trimmed, got=%q", cfg.EmulatorHost)
	}
}

func TestResolveConfigFromEnvS3(t *testing.T) {
	clearObjectStorageEnv(t)
	t.Setenv("OBJECT_STORAGE_MODE", "S3")
	t.Setenv("OBJECT_STORAGE_BUCKET", "lore")
	t.Setenv("S3_ENDPOINT", "https://acct.r2.cloudflarestorage.com")
	t.Setenv("S3_ACCESS_KEY_ID", "id")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_FORCE_PATH_STYLE", "true")

	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveConfigFromEnv: %v", err)
	}
	if cfg.Mode != ModeS3 {
		t.Fatalf("mode: want=%q got=%q", ModeS3, cfg.Mode)
	}
	if cfg.S3.Region != "auto" || !cfg.S3.UsePathStyle {
		t.Fatalf("s3 config: got=%+v", cfg.S3)
	}
}

func TestResolveConfigFromEnvErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		code ConfigErrorCode
	}{
		{"invalid mode", map[string]string{"OBJECT_STORAGE_MODE": "ftp"}, ConfigErrorInvalidMode},
		{"missing bucket", map[string]string{"OBJECT_STORAGE_MODE": "gcs"}, ConfigErrorMissingBucket},
		{"missing emulator host", map[string]string{"OBJECT_STORAGE_MODE": "gcs_emulator", "OBJECT_STORAGE_BUCKET": "b"}, ConfigErrorMissingEmulatorHost},
		{"invalid emulator host", map[string]string{"OBJECT_STORAGE_MODE": "gcs_emulator", "OBJECT_STORAGE_BUCKET": "b", "STORAGE_EMULATOR_HOST": "fake-gcs:4443"}, ConfigErrorInvalidEmulatorHost},
		{"half s3 creds", map[string]string{"OBJECT_STORAGE_MODE": "s3", "OBJECT_STORAGE_BUCKET": "b", "S3_ACCESS_KEY_ID": "id"}, ConfigErrorMissingS3Credentials},
		{"bad public base", map[string]string{"OBJECT_STORAGE_MODE": "memory", "OBJECT_STORAGE_PUBLIC_BASE_URL": "/images"}, ConfigErrorInvalidPublicBaseURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearObjectStorageEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := ResolveConfigFromEnv()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want *ConfigError, got %T (%v)", err, err)
			}
			if cfgErr.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, cfgErr.Code)
			}
		})
	}
}
