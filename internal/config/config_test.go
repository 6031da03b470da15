package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, int64(5), cfg.LoginRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.LoginRateWindow)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.False(t, cfg.YandexEnabled())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("JWT_ALGORITHM", "HS512")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRE_TIME_SECONDS", "60")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("APP_ENV", "development")
	t.Setenv("YANDEX_CLIENT_ID", "id")
	t.Setenv("YANDEX_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.JWT.Algorithm)
	assert.Equal(t, time.Minute, cfg.JWT.AccessTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.YandexEnabled())
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET_KEY"},
		{"bad algorithm", map[string]string{"JWT_SECRET_KEY": "s", "JWT_ALGORITHM": "RS256"}, "JWT_ALGORITHM"},
		{"zero ttl", map[string]string{"JWT_SECRET_KEY": "s", "JWT_REFRESH_TOKEN_EXPIRE_TIME_SECONDS": "0"}, "REFRESH"},
		{"non numeric ttl", map[string]string{"JWT_SECRET_KEY": "s", "JWT_ACCESS_TOKEN_EXPIRE_TIME_SECONDS": "soon"}, "seconds"},
		{"unknown hasher", map[string]string{"JWT_SECRET_KEY": "s", "PASSWORD_HASHER": "md5"}, "md5"},
		{"unknown storage", map[string]string{"JWT_SECRET_KEY": "s", "STORAGE_DRIVER": "mongo"}, "STORAGE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
