package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentflow/studentflow-backend/internal/config"
)

func fastRetries(t *testing.T, attempts int) {
	oldAttempts, oldDelay := pingAttempts, pingDelay
	pingAttempts, pingDelay = attempts, time.Millisecond
	t.Cleanup(func() { pingAttempts, pingDelay = oldAttempts, oldDelay })
}

func TestPingWithRetry_RecoversAfterFailures(t *testing.T) {
	fastRetries(t, 4)

	calls := 0
	err := pingWithRetry(context.Background(), zerolog.Nop(), "redis", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	fastRetries(t, 3)
	refused := errors.New("connection refused")

	calls := 0
	err := pingWithRetry(context.Background(), zerolog.Nop(), "postgres", func(context.Context) error {
		calls++
		return refused
	})

	assert.ErrorIs(t, err, refused)
	assert.Contains(t, err.Error(), "ping postgres after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_StopsOnCancel(t *testing.T) {
	fastRetries(t, 5)
	pingDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := pingWithRetry(ctx, zerolog.Nop(), "redis", func(context.Context) error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	fastRetries(t, 2)

	cfg := &config.Config{RedisURL: "redis://127.0.0.1:1/0"}
	_, err := NewRedisClient(context.Background(), cfg, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis after 2 attempts")
}
