package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := baseConfig()

	assert.Equal(t, "crmpro-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "crmpro", cfg.Database.DBName)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Billing.GraceDays)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate(t *testing.T) {
	t.Run("development defaults pass", func(t *testing.T) {
		cfg := baseConfig()
		assert.NoError(t, cfg.validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Database.MaxIdleConns = 50
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production rejects short jwt secret", func(t *testing.T) {
		cfg := baseConfig()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "tooshort"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"

		assert.Error(t, cfg.validate())
	})

	t.Run("production rejects disabled ssl", func(t *testing.T) {
		cfg := baseConfig()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-very-long-secret-key-with-32-chars!!"
		cfg.Database.Password = "secret"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("production rejects wildcard cors", func(t *testing.T) {
		cfg := baseConfig()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-very-long-secret-key-with-32-chars!!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}

		assert.Error(t, cfg.validate())
	})

	t.Run("valid production config passes", func(t *testing.T) {
		cfg := baseConfig()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-very-long-secret-key-with-32-chars!!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"https://app.crmpro.uz"}

		assert.NoError(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "crmpro",
		Password: "p@ss:word",
		DBName:   "crmpro",
		SSLMode:  "require",
	}

	dsn := db.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss:word@")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
