package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "BDT", cfg.Payment.Currency)
	assert.Equal(t, 30*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.EnforceRoles)
	assert.False(t, cfg.IsProduction())
	assert.Contains(t, cfg.HTTP.AllowedOrigins, "https://dine-dash-client.web.app")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DINEDASH_DATABASE_DRIVER", "postgres")
	t.Setenv("DINEDASH_DATABASE_DSN", "host=db user=dinedash dbname=dinedash")
	t.Setenv("DINEDASH_APP_ENV", "production")
	t.Setenv("DINEDASH_AUTH_ENFORCE_ROLES", "true")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=dinedash dbname=dinedash", cfg.Database.DSN)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Auth.EnforceRoles)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown driver", key: "DINEDASH_DATABASE_DRIVER", val: "oracle"},
		{name: "non numeric port", key: "DINEDASH_HTTP_PORT", val: "http"},
		{name: "short jwt secret", key: "DINEDASH_AUTH_JWT_SECRET", val: "abc"},
		{name: "bad currency", key: "DINEDASH_PAYMENT_CURRENCY", val: "TAKA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}
