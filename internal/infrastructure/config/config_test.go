package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PARCEL_APP_NAME", "PARCEL_APP_ENV", "PARCEL_APP_PORT", "PARCEL_APP_BASE_URL",
		"PARCEL_DATABASE_HOST", "PARCEL_DATABASE_PORT", "PARCEL_DATABASE_USER",
		"PARCEL_DATABASE_PASSWORD", "PARCEL_DATABASE_DBNAME", "PARCEL_DATABASE_SSLMODE",
		"PARCEL_DATABASE_MAX_OPEN_CONNS", "PARCEL_DATABASE_MAX_IDLE_CONNS",
		"PARCEL_AUTH_JWT_SECRET", "PARCEL_HTTP_CORS_ALLOW_ORIGINS",
		"PARCEL_SMTP_ENABLED", "PARCEL_SMTP_HOST", "PARCEL_DASHBOARD_CACHE_TTL",
		"PARCEL_TELEMETRY_SAMPLING_RATIO", "PARCEL_TELEMETRY_DB_LOG_FULL_SQL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "parcel-backoffice", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "http://localhost:3000", cfg.App.BaseURL)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "parcel", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "admin", cfg.Auth.AdminRole)
		assert.Equal(t, "shipment-events", cfg.Kafka.Topic)
		assert.Equal(t, "30s", cfg.Dashboard.CacheTTL.String())
		assert.Equal(t, "parcel-backoffice", cfg.Telemetry.ServiceName)
		assert.Equal(t, "1m0s", cfg.Telemetry.MetricsInterval.String())
		assert.False(t, cfg.SMTP.Enabled)
		assert.False(t, cfg.Storage.Enabled)
	})

	t.Run("loads values from environment variables with PARCEL prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARCEL_APP_NAME", "test-app")
		t.Setenv("PARCEL_APP_PORT", "9000")
		t.Setenv("PARCEL_APP_BASE_URL", "https://parcel.example.com")
		t.Setenv("PARCEL_DATABASE_HOST", "testdb.local")
		t.Setenv("PARCEL_DATABASE_PORT", "5433")
		t.Setenv("PARCEL_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("PARCEL_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("PARCEL_DASHBOARD_CACHE_TTL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "1m0s", cfg.Dashboard.CacheTTL.String())
		assert.Equal(t, "https://parcel.example.com/tracking/PC1", cfg.App.TrackingURL("PC1"))
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARCEL_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("PARCEL_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires smtp host when smtp is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARCEL_SMTP_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.host")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARCEL_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PARCEL_APP_ENV", "production")
		t.Setenv("PARCEL_APP_BASE_URL", "https://parcel.example.com")
		t.Setenv("PARCEL_AUTH_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("PARCEL_DATABASE_PASSWORD", "secure-password")
		t.Setenv("PARCEL_DATABASE_SSLMODE", "require")
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"requires jwt secret", map[string]string{"PARCEL_AUTH_JWT_SECRET": ""}, "auth.jwt_secret is required"},
		{"requires long jwt secret", map[string]string{"PARCEL_AUTH_JWT_SECRET": "short-secret"}, "at least 32 characters"},
		{"requires database password", map[string]string{"PARCEL_DATABASE_PASSWORD": ""}, "database.password is required"},
		{"requires ssl", map[string]string{"PARCEL_DATABASE_SSLMODE": "disable"}, "sslmode cannot be 'disable'"},
		{"requires https base url", map[string]string{"PARCEL_APP_BASE_URL": "http://parcel.example.com"}, "must use https"},
		{"rejects full sql tracing", map[string]string{"PARCEL_TELEMETRY_DB_LOG_FULL_SQL": "true"}, "db_log_full_sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidProductionBase(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
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
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
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

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
