package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", EnvDev)
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestEnvReader_Read_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, "5001", cfg.HTTP.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxSize)
	assert.False(t, cfg.Firebase.Enabled())
}

func TestEnvReader_Read_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", StorageDriverMongo)
	t.Setenv("MONGO_DATABASE", "tasks_test")
	t.Setenv("JWT_TOKEN_TTL", "1h")
	t.Setenv("FIREBASE_CREDENTIALS_JSON", "{}")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "tasks_test", cfg.Mongo.Database)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.True(t, cfg.Firebase.Enabled())
}

func TestEnvReader_Read_MissingSecret(t *testing.T) {
	t.Setenv("ENV", EnvDev)
	t.Setenv("JWT_SECRET", "")

	_, err := NewEnvReader().Read()
	require.Error(t, err)
}

func TestEnvReader_Read_UnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := NewEnvReader().Read()
	require.ErrorContains(t, err, "unknown storage driver")
}

func TestEnvReader_Read_UnknownEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "staging")

	_, err := NewEnvReader().Read()
	require.ErrorContains(t, err, "unknown env")
}
