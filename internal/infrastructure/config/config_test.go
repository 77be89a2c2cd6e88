package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"KYBER_APP_NAME",
	"KYBER_APP_ENV",
	"KYBER_APP_PORT",
	"KYBER_APP_PUBLIC_URL",
	"KYBER_DATABASE_HOST",
	"KYBER_DATABASE_PORT",
	"KYBER_DATABASE_USER",
	"KYBER_DATABASE_PASSWORD",
	"KYBER_DATABASE_DBNAME",
	"KYBER_DATABASE_SSLMODE",
	"KYBER_DATABASE_MAX_OPEN_CONNS",
	"KYBER_DATABASE_MAX_IDLE_CONNS",
	"KYBER_JWT_SECRET",
	"KYBER_CRYPTO_MASTER_KEY",
	"KYBER_STORAGE_DRIVER",
	"KYBER_STORAGE_S3_BUCKET",
}

func withCleanEnv(t *testing.T) func() {
	t.Helper()
	original := make(map[string]string, len(configEnvKeys))
	for _, k := range configEnvKeys {
		original[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	return func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	restore := withCleanEnv(t)
	defer restore()

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "kyber-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "kyber", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TokenExpiration)
		assert.Equal(t, "local", cfg.Storage.Driver)
		assert.Equal(t, "./uploads", cfg.Storage.LocalDir)
		assert.Equal(t, 30*time.Second, cfg.PDF.RenderTimeout)
	})

	t.Run("loads values from environment variables with KYBER prefix", func(t *testing.T) {
		os.Setenv("KYBER_APP_NAME", "test-app")
		os.Setenv("KYBER_APP_PORT", "9000")
		os.Setenv("KYBER_DATABASE_HOST", "testdb.local")
		os.Setenv("KYBER_DATABASE_PORT", "5433")
		os.Setenv("KYBER_DATABASE_USER", "testuser")
		os.Setenv("KYBER_DATABASE_PASSWORD", "testpass")
		defer func() {
			os.Unsetenv("KYBER_APP_NAME")
			os.Unsetenv("KYBER_APP_PORT")
			os.Unsetenv("KYBER_DATABASE_HOST")
			os.Unsetenv("KYBER_DATABASE_PORT")
			os.Unsetenv("KYBER_DATABASE_USER")
			os.Unsetenv("KYBER_DATABASE_PASSWORD")
		}()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		os.Setenv("KYBER_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("KYBER_DATABASE_MAX_IDLE_CONNS", "20")
		defer func() {
			os.Unsetenv("KYBER_DATABASE_MAX_OPEN_CONNS")
			os.Unsetenv("KYBER_DATABASE_MAX_IDLE_CONNS")
		}()

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		os.Setenv("KYBER_STORAGE_DRIVER", "ftp")
		defer os.Unsetenv("KYBER_STORAGE_DRIVER")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})

	t.Run("requires bucket for s3 driver", func(t *testing.T) {
		os.Setenv("KYBER_STORAGE_DRIVER", "s3")
		defer os.Unsetenv("KYBER_STORAGE_DRIVER")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3_bucket")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	restore := withCleanEnv(t)
	defer restore()

	setValidProductionBase := func() {
		os.Setenv("KYBER_APP_ENV", "production")
		os.Setenv("KYBER_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("KYBER_CRYPTO_MASTER_KEY", "another-very-secure-master-key-for-secrets")
		os.Setenv("KYBER_DATABASE_PASSWORD", "secure-password")
		os.Setenv("KYBER_DATABASE_SSLMODE", "require")
	}

	clearBase := func() {
		for _, k := range configEnvKeys {
			os.Unsetenv(k)
		}
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearBase()
		setValidProductionBase()
		os.Unsetenv("KYBER_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearBase()
		setValidProductionBase()
		os.Setenv("KYBER_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires crypto.master_key in production", func(t *testing.T) {
		clearBase()
		setValidProductionBase()
		os.Unsetenv("KYBER_CRYPTO_MASTER_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "crypto.master_key is required in production")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearBase()
		setValidProductionBase()
		os.Unsetenv("KYBER_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearBase()
		setValidProductionBase()
		os.Setenv("KYBER_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearBase()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})
}
