package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	// No indentation inside the backtick block beyond YAML nesting
	content := `server:
  host: "0.0.0.0"
  port: 9090
  shutdown_timeout: 5s
auth:
  jwt_secret: "s3cret"
  token_ttl: 2h
log:
  level: debug
source:
  profile: warehouse
  profiles_path: /etc/booking-atlas/profiles.ini
export:
  bucket: reports
  region: ap-south-1`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "booking-atlas", cfg.Auth.Issuer)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "warehouse", cfg.Source.Profile)
	assert.Equal(t, "reports", cfg.Export.Bucket)
	assert.Equal(t, "exports/", cfg.Export.Prefix)
	assert.Equal(t, "booking-atlas.db", cfg.Storage.DbPath)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKING_ATLAS_SERVER_PORT", "7070")
	t.Setenv("BOOKING_ATLAS_AUTH_JWT_SECRET", "from-env")
	t.Setenv("BOOKING_ATLAS_EXPORT_BUCKET", "reports")
	t.Setenv("BOOKING_ATLAS_EXPORT_REGION", "ap-south-1")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "reports", cfg.Export.Bucket)
	assert.Equal(t, "ap-south-1", cfg.Export.Region)
	assert.Equal(t, "exports/", cfg.Export.Prefix)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: "server: port: : bad"},
		{name: "port out of range", content: "server:\n  port: 70000"},
		{name: "unknown log level", content: "log:\n  level: loud"},
		{name: "profile without path", content: "source:\n  profile: warehouse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_Profiles(t *testing.T) {
	ctx := context.Background()
	registry, err := NewRegistryFromBytes([]byte(`
[local]
type = duckdb
path = bookings.db

[warehouse]
type = postgres
dsn = postgres://analytics@db:5432/sales?sslmode=disable
table = public.bookings

[lakehouse]
type = databricks
host = adb-123.azuredatabricks.net
token = dapi-token
http_path = /sql/1.0/warehouses/abc
`))
	require.NoError(t, err)

	t.Run("lists every profile", func(t *testing.T) {
		profiles, err := registry.GetProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 3)
		assert.Equal(t, "local", profiles[0].Name)
		assert.Equal(t, domain.ProfileTypeDuckDB, profiles[0].Type)
		assert.Equal(t, "postgres:warehouse", profiles[1].String())
	})

	t.Run("settings exclude the type key", func(t *testing.T) {
		p, err := registry.GetProfile(ctx, "lakehouse")
		require.NoError(t, err)
		assert.Equal(t, "/sql/1.0/warehouses/abc", p.Setting("http_path", ""))
		_, hasType := p.Settings["type"]
		assert.False(t, hasType)
		assert.Equal(t, "bookings", p.Setting("table", "bookings"))
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := registry.GetProfile(ctx, "nope")
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		bad, err := NewRegistryFromBytes([]byte("[x]\ntype = oracle\n"))
		require.NoError(t, err)
		_, err = bad.GetProfile(ctx, "x")
		assert.Error(t, err)
	})
}
