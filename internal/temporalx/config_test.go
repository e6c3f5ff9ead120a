package temporalx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TEMPORAL_ADDRESS", "")
	t.Setenv("TEMPORAL_NAMESPACE", "")
	t.Setenv("TEMPORAL_TASK_QUEUE", "")
	t.Setenv("TEMPORAL_NAMESPACE_RETENTION_DAYS", "900")

	cfg := LoadConfig()
	assert.Equal(t, "lore", cfg.Namespace)
	assert.Equal(t, DefaultTaskQueue, cfg.TaskQueue)
	assert.Equal(t, 365, cfg.RetentionDays)
	assert.False(t, cfg.mTLS())
}

func TestNewClientRequiresAddress(t *testing.T) {
	_, err := NewClient(context.Background(), nil, Config{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 250*time.Millisecond, Backoff(0, time.Second, 1))
	assert.Equal(t, time.Second, Backoff(250*time.Millisecond, time.Second, 3))
	assert.Equal(t, time.Second, Backoff(250*time.Millisecond, time.Second, 10))
}

func TestIsRetryableRPC(t *testing.T) {
	assert.True(t, isRetryableRPC(status.Error(codes.Unavailable, "down")))
	assert.False(t, isRetryableRPC(status.Error(codes.PermissionDenied, "no")))
	assert.True(t, isRetryableRPC(context.DeadlineExceeded))
	assert.False(t, isRetryableRPC(errors.New("boom")))
	assert.False(t, isRetryableRPC(nil))
}
