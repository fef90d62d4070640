package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[mysql]
dsn = "user:pass@tcp(db:3306)/market?parseTime=true"
automigrate = true

[logger]
level = -4

[http]
port = "9000"
allowed_origins = ["https://shop.example"]

[http.rate_limit]
rps = 2.5
burst = 5

[auth]
jwt_secret = "file-secret"

[insights]
timezone = "Europe/Riga"
top_products = 10
response_ceiling = "12h"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "user:pass@tcp(db:3306)/market?parseTime=true", cfg.DB.DSN)
	assert.True(t, cfg.DB.Automigrate)
	assert.Equal(t, 10, cfg.DB.MaxOpenConnections)
	assert.Equal(t, -4, cfg.Logger.Level)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, []string{"https://shop.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 2.5, cfg.HTTP.RateLimit.RPS)
	assert.Equal(t, 5, cfg.HTTP.RateLimit.Burst)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, "Europe/Riga", cfg.Insights.Timezone)
	assert.Equal(t, 10, cfg.Insights.TopProducts)
	assert.Equal(t, 12*time.Hour, cfg.Insights.ResponseCeiling)
	assert.Equal(t, 30*time.Minute, cfg.Insights.CurrentEstimate)
	assert.Equal(t, 5*time.Minute, cfg.Insights.SellerCacheTTL)
	assert.Equal(t, 4*time.Minute, cfg.SellerRefresh.WorkerInterval)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "env-secret")
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("INSIGHTS_PREVIOUS_ESTIMATE", "1h")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "7000", cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Insights.PreviousEstimate)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, "UTC", cfg.Insights.Timezone)
}

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "metrics")
	t.Setenv("MYSQL_PASSWORD", "s3cret")
	t.Setenv("MYSQL_DATABASE", "market")
	t.Setenv("MYSQL_TLS_CA_PATH", "/etc/ssl/ca.pem")

	cfg, err := LoadConfig(writeConfig(t, "[logger]\nlevel = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, "metrics:s3cret@tcp(db.internal:3306)/market?charset=utf8mb4&parseTime=true&loc=UTC&tls=custom", cfg.DB.DSN)
}

func TestDSNFromEnvIncomplete(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "")
	assert.Empty(t, dsnFromEnv(false))
}
