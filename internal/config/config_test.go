package config_test

import (
	"inkwell/internal/config"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret_key")

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, "test_secret_key", cfg.Auth.JWTSecret)
	require.Equal(t, 24, cfg.Auth.JWTExpiration)
	require.True(t, cfg.Auth.RegistrationOpen)
	require.Equal(t, 3, cfg.LoginLimit.MaxAttempts)
	require.Equal(t, 30, cfg.LoginLimit.LockoutMinutes)
	require.Equal(t, 30, cfg.Retention.MaxAgeDays)
	require.Equal(t, "0 3 * * *", cfg.Retention.Schedule)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "other_secret")
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_EXPIRATION_HOURS", "48")
	t.Setenv("REGISTRATION_OPEN", "false")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")
	t.Setenv("LOGIN_LOCKOUT_MINUTES", "15")
	t.Setenv("REDIS_ADDR", "redis:6380")

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "9090", cfg.API.Port)
	require.Equal(t, 48, cfg.Auth.JWTExpiration)
	require.False(t, cfg.Auth.RegistrationOpen)
	require.Equal(t, 5, cfg.LoginLimit.MaxAttempts)
	require.Equal(t, 15, cfg.LoginLimit.LockoutMinutes)
	require.Equal(t, "redis:6380", cfg.Redis.Addr)
}

func TestLoadFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret_key")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "not-a-number")

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())
	require.Equal(t, 3, cfg.LoginLimit.MaxAttempts)
}

func TestLoadFromEnv_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	var cfg config.Config
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFromEnv_DotenvFile(t *testing.T) {
	env, err := godotenv.Read("../../.env.test")
	require.NoError(t, err)
	for k, v := range env {
		t.Setenv(k, v)
	}

	var cfg config.Config
	require.NoError(t, cfg.LoadFromEnv())

	require.Equal(t, "test_secret_key", cfg.Auth.JWTSecret)
	require.Equal(t, "inkwell_test", cfg.Database.DBName)
	require.Equal(t, 1, cfg.Redis.DB)
	require.Equal(t, 3, cfg.LoginLimit.MaxAttempts)
}
