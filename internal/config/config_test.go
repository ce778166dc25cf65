package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("NOTIFICATION_HOUR", "")
	t.Setenv("ENABLE_SCHEDULER", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 9, cfg.Scheduler.NotificationHour)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NOTIFICATION_HOUR", "20")
	t.Setenv("ENABLE_SCHEDULER", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 20, cfg.Scheduler.NotificationHour)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("hour out of range", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")
		t.Setenv("NOTIFICATION_HOUR", "25")
		_, err := Load()
		assert.Error(t, err)
	})
}
